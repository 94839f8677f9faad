// ABOUTME: Tests for Bedrock API error classification.
// ABOUTME: Verifies typed exceptions, HTTP status fallback, and verbatim pass-through.

package bedrock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/agent-connect/internal/session"
	"github.com/2389/agent-connect/internal/transport"
)

func testSession() session.Config {
	return session.Config{
		Region:          "us-east-1",
		AgentID:         "A1",
		AgentAliasID:    "TSTALIASID",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		SessionID:       "session-1-abc",
	}
}

func TestClassifyError_ResourceNotFound(t *testing.T) {
	err := fmt.Errorf("operation error: %w", &types.ResourceNotFoundException{
		Message: aws.String("agent does not exist"),
	})

	f := classifyError(testSession(), err)
	require.Equal(t, transport.KindNotFound, f.Kind)
	assert.Contains(t, f.Message, `"A1"`)
	assert.Contains(t, f.Message, `"us-east-1"`)
	assert.True(t, f.NeedsTroubleshooting())
}

func TestClassifyError_AccessDenied(t *testing.T) {
	err := fmt.Errorf("operation error: %w", &types.AccessDeniedException{
		Message: aws.String("no permission"),
	})

	f := classifyError(testSession(), err)
	assert.Equal(t, transport.KindAccessDenied, f.Kind)
	assert.True(t, f.NeedsTroubleshooting())
}

func TestClassifyError_Validation(t *testing.T) {
	err := fmt.Errorf("operation error: %w", &types.ValidationException{
		Message: aws.String("inputText too long"),
	})

	f := classifyError(testSession(), err)
	assert.Equal(t, transport.KindValidation, f.Kind)
	assert.Contains(t, f.Message, "inputText too long")
	assert.False(t, f.NeedsTroubleshooting())
}

func TestClassifyError_HTTPStatusFallback(t *testing.T) {
	tests := []struct {
		status int
		want   transport.FailureKind
	}{
		{404, transport.KindNotFound},
		{403, transport.KindAccessDenied},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			err := fmt.Errorf("request failed: %w", &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{
					Response: &http.Response{StatusCode: tt.status},
				},
				Err: errors.New("upstream rejected request"),
			})

			f := classifyError(testSession(), err)
			assert.Equal(t, tt.want, f.Kind)
		})
	}
}

func TestClassifyError_UnknownVerbatim(t *testing.T) {
	f := classifyError(testSession(), errors.New("connection reset by peer"))
	assert.Equal(t, transport.KindUnknown, f.Kind)
	assert.Equal(t, "connection reset by peer", f.Message)
}

func TestSelfTest_RequiresClient(t *testing.T) {
	var c Client
	err := c.SelfTest(context.Background())
	require.Error(t, err)
	assert.Equal(t, transport.KindConnection, transport.AsFailure(err).Kind)
}
