package policy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	decision, reason, err := engine.Evaluate(ctx, NewInput("서울 날씨 어때?", 500))
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
	assert.Empty(t, reason)

	decision, reason, err = engine.Evaluate(ctx, NewInput(strings.Repeat("가", 11), 10))
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)
	assert.Equal(t, "input exceeds 10 characters", reason)
}

func TestDefaultPolicyCountsRunes(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	// Ten Hangul syllables are thirty bytes but ten characters.
	decision, _, err := engine.Evaluate(ctx, NewInput(strings.Repeat("가", 10), 10))
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestDefaultPolicyNoLimit(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	decision, _, err := engine.Evaluate(ctx, NewInput(strings.Repeat("a", 10000), 0))
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestCustomPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, `
package request_policy

import rego.v1

default decision := "allow"

decision := "block" if {
	contains(input.user_input, "forbidden")
}
`)
	require.NoError(t, err)

	decision, _, err := engine.Evaluate(ctx, NewInput("a forbidden question", 500))
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)
}

func TestNewEngineRejectsInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package request_policy\n\ndecision := {")
	assert.Error(t, err)
}
