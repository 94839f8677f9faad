// ABOUTME: Failure taxonomy for transport errors and the troubleshooting heuristic.
// ABOUTME: Structured kinds are preferred; substring matching is a documented stopgap.

package transport

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies a transport failure into an actionable category.
type FailureKind int

const (
	// KindUnknown covers anything without a structured classification;
	// the message is passed through verbatim.
	KindUnknown FailureKind = iota
	// KindConnection covers transport construction or self-test failures.
	KindConnection
	// KindNotFound covers agent/alias/region mismatches and agents not in
	// a ready state (404-equivalent signals).
	KindNotFound
	// KindAccessDenied covers credential and permission failures
	// (403-equivalent signals).
	KindAccessDenied
	// KindValidation covers malformed request parameters rejected by the
	// remote side.
	KindValidation
)

// String returns the kind's wire-friendly name.
func (k FailureKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindNotFound:
		return "not-found"
	case KindAccessDenied:
		return "access-denied"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Failure is a classified transport error. It flows through the engine as a
// value and lands in the conversation snapshot; it is never thrown past the
// engine boundary.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string { return f.Message }

// NeedsTroubleshooting reports whether the failure should trigger a guided
// remediation surface. Structured not-found and access-denied kinds always
// qualify. For unclassified failures we fall back to matching well-known
// substrings in the message text; this is best-effort only and brittle to
// wording changes upstream, so transports should supply a structured kind
// whenever they can.
func (f *Failure) NeedsTroubleshooting() bool {
	switch f.Kind {
	case KindNotFound, KindAccessDenied:
		return true
	case KindUnknown, KindConnection:
		for _, hint := range []string{"Agent not found", "404", "Access denied", "403"} {
			if strings.Contains(f.Message, hint) {
				return true
			}
		}
	}
	return false
}

// NotFound builds the not-found failure with enough context to diagnose an
// agent/alias/region mismatch.
func NotFound(agentID, aliasID, region string) *Failure {
	return &Failure{
		Kind: KindNotFound,
		Message: fmt.Sprintf(
			"Agent not found. Check the agent ID %q, agent alias ID %q, and region %q, and make sure the agent is in the PREPARED state",
			agentID, aliasID, region),
	}
}

// AccessDenied builds the credential/permission failure.
func AccessDenied() *Failure {
	return &Failure{
		Kind:    KindAccessDenied,
		Message: "Access denied. Check your credentials and IAM permissions for Bedrock",
	}
}

// Validation builds the malformed-parameters failure.
func Validation(detail string) *Failure {
	return &Failure{
		Kind:    KindValidation,
		Message: "Invalid request parameters: " + detail,
	}
}

// Connection builds a construction or self-test failure.
func Connection(detail string) *Failure {
	return &Failure{
		Kind:    KindConnection,
		Message: "Connection failed: " + detail,
	}
}

// Unknown passes an unclassified message through verbatim.
func Unknown(message string) *Failure {
	return &Failure{Kind: KindUnknown, Message: message}
}

// AsFailure extracts a *Failure from err, wrapping anything else as
// KindUnknown so every error surfaced by a transport has a classification.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Unknown(err.Error())
}
