// ABOUTME: AWS Bedrock Agent Runtime implementation of the agent transport.
// ABOUTME: Streams InvokeAgent completion chunks as fragment events and classifies API errors.

package bedrock

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/2389/agent-connect/internal/session"
	"github.com/2389/agent-connect/internal/transport"
)

// eventBufferSize is the channel buffer for streamed events per turn.
const eventBufferSize = 16

// Client is a transport.Transport backed by the Bedrock Agent Runtime.
// The client is bound to the region and credentials it was constructed with.
type Client struct {
	api    *bedrockagentruntime.Client
	logger *slog.Logger
}

// New constructs a Bedrock transport bound to the config's region and static
// credential pair. Construction failure is a connection-class error.
func New(ctx context.Context, cfg session.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, transport.Connection(err.Error())
	}

	return &Client{
		api:    bedrockagentruntime.NewFromConfig(awsCfg),
		logger: logger.With("component", "bedrock"),
	}, nil
}

// SelfTest confirms the client was constructed. It deliberately makes no
// network call: a successful self-test does not guarantee later turns succeed.
func (c *Client) SelfTest(ctx context.Context) error {
	if c.api == nil {
		return transport.Connection("client not initialized")
	}
	return nil
}

// Invoke dispatches one turn via InvokeAgent and streams the chunked
// completion back as fragment events, terminated by Done or Error.
func (c *Client) Invoke(ctx context.Context, cfg session.Config, text string) (<-chan *transport.Event, error) {
	out, err := c.api.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(cfg.AgentID),
		AgentAliasId: aws.String(cfg.AgentAliasID),
		SessionId:    aws.String(cfg.SessionID),
		InputText:    aws.String(text),
	})
	if err != nil {
		return nil, classifyError(cfg, err)
	}

	events := make(chan *transport.Event, eventBufferSize)
	go c.pump(ctx, cfg, out, events)
	return events, nil
}

// pump decodes the completion event stream into transport events.
// Chunks arrive in order; the cumulative response is their concatenation.
func (c *Client) pump(ctx context.Context, cfg session.Config, out *bedrockagentruntime.InvokeAgentOutput, events chan<- *transport.Event) {
	defer close(events)

	stream := out.GetStream()
	defer stream.Close()

	var full []byte
	for ev := range stream.Events() {
		chunk, ok := ev.(*types.ResponseStreamMemberChunk)
		if !ok || len(chunk.Value.Bytes) == 0 {
			continue
		}
		full = append(full, chunk.Value.Bytes...)

		select {
		case events <- &transport.Event{Kind: transport.EventFragment, Text: string(chunk.Value.Bytes)}:
		case <-ctx.Done():
			c.logger.Debug("context cancelled during response stream",
				"session_id", cfg.SessionID)
			return
		}
	}

	if err := stream.Err(); err != nil {
		c.logger.Warn("agent stream failed",
			"session_id", cfg.SessionID,
			"error", err)
		events <- &transport.Event{Kind: transport.EventError, Err: classifyError(cfg, err), Done: true}
		return
	}

	events <- &transport.Event{Kind: transport.EventDone, Text: string(full), Done: true}
}

// classifyError maps Bedrock API errors into the failure taxonomy. Typed
// modeled exceptions are checked first, then raw HTTP status codes, then the
// generic smithy error message.
func classifyError(cfg session.Config, err error) *transport.Failure {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return transport.NotFound(cfg.AgentID, cfg.AgentAliasID, cfg.Region)
	}

	var denied *types.AccessDeniedException
	if errors.As(err, &denied) {
		return transport.AccessDenied()
	}

	var invalid *types.ValidationException
	if errors.As(err, &invalid) {
		return transport.Validation(invalid.ErrorMessage())
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case 404:
			return transport.NotFound(cfg.AgentID, cfg.AgentAliasID, cfg.Region)
		case 403:
			return transport.AccessDenied()
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return transport.Unknown(apiErr.ErrorMessage())
	}

	return transport.Unknown(err.Error())
}
