// ABOUTME: Tests for failure classification, troubleshooting heuristics, and AsFailure.
// ABOUTME: Verifies structured kinds win and substring matching stays a fallback.

package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound_MessageNamesOffendingIdentifiers(t *testing.T) {
	f := NotFound("A1", "TSTALIASID", "us-east-1")

	assert.Equal(t, KindNotFound, f.Kind)
	assert.Contains(t, f.Message, `"A1"`)
	assert.Contains(t, f.Message, `"TSTALIASID"`)
	assert.Contains(t, f.Message, `"us-east-1"`)
	assert.Contains(t, f.Message, "PREPARED")
}

func TestNeedsTroubleshooting_StructuredKinds(t *testing.T) {
	tests := []struct {
		name string
		f    *Failure
		want bool
	}{
		{"not found", NotFound("a", "b", "c"), true},
		{"access denied", AccessDenied(), true},
		{"validation", Validation("bad input"), false},
		{"unknown bland", Unknown("something broke"), false},
		{"connection bland", Connection("dial tcp: timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.NeedsTroubleshooting())
		})
	}
}

func TestNeedsTroubleshooting_SubstringFallback(t *testing.T) {
	for _, msg := range []string{
		"Agent not found: A1",
		"unexpected status 404",
		"Access denied by upstream",
		"got 403 from server",
	} {
		t.Run(msg, func(t *testing.T) {
			assert.True(t, Unknown(msg).NeedsTroubleshooting())
		})
	}

	assert.False(t, Unknown("agent misbehaved").NeedsTroubleshooting())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not-found", KindNotFound.String())
	assert.Equal(t, "access-denied", KindAccessDenied.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "connection", KindConnection.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestAsFailure(t *testing.T) {
	orig := Validation("missing field")

	got := AsFailure(fmt.Errorf("invoking agent: %w", orig))
	require.Same(t, orig, got)

	plain := AsFailure(errors.New("boom"))
	assert.Equal(t, KindUnknown, plain.Kind)
	assert.Equal(t, "boom", plain.Message)
}
