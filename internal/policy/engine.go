// Package policy evaluates request admission rules written in rego.
package policy

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Input is the document a request policy is evaluated against.
type Input struct {
	UserInput string `json:"user_input"`
	Length    int    `json:"length"`
	MaxLength int    `json:"max_length"`
}

// NewInput builds the policy input for userInput, measuring length in runes.
func NewInput(userInput string, maxLength int) Input {
	return Input{
		UserInput: userInput,
		Length:    utf8.RuneCountInString(userInput),
		MaxLength: maxLength,
	}
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.request_policy"),
		rego.Module("request_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the request policy.
// Returns: decision (allow, block), reason (optional), error
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, "default", nil
	}

	doc, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return DecisionAllow, "unexpected return type", nil
	}

	decision, _ := doc["decision"].(string)
	reason, _ := doc["reason"].(string)
	if decision == "" {
		decision = DecisionAllow
	}
	return decision, reason, nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package request_policy

import rego.v1

default decision := "allow"

default reason := ""

# Block inputs longer than the configured limit.
decision := "block" if {
	input.max_length > 0
	input.length > input.max_length
}

reason := sprintf("input exceeds %d characters", [input.max_length]) if {
	decision == "block"
}
`
