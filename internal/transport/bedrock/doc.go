// Package bedrock implements the agent transport on the AWS Bedrock Agent
// Runtime.
//
// Each turn is one InvokeAgent call. The chunked completion stream is decoded
// into fragment events in arrival order and terminated by a Done event
// carrying the full concatenated text, or an Error event carrying a
// classified failure. ResourceNotFoundException, AccessDeniedException and
// ValidationException map to their structured kinds; raw 404/403 responses
// are classified by status code; everything else passes through verbatim.
package bedrock
