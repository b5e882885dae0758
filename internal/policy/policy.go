package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/verifier"
)

// RegisterQuery is the document a registration policy must produce.
const RegisterQuery = "data.cognito_auth_register.result"

// RegisterInput is what a registration policy gets to decide on.
type RegisterInput struct {
	Username          string                            `json:"username"`
	Email             string                            `json:"email"`
	EmailVerification *verifier.EmailVerificationResult `json:"emailVerification,omitempty"`
}

// RegisterOutput is the decision document. An action of "deny" aborts the
// registration with the given reason.
type RegisterOutput struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// Read loads a rego policy module from disk.
func Read(path string) (*string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	src := string(data)
	return &src, nil
}

// Evaluate runs query against the policy module and decodes the resulting
// document into T.
func Evaluate[T any](ctx context.Context, policy *string, query string, input any) (*T, error) {
	// OPA wants plain maps and slices as input.
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("policy input marshal error: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("policy input unmarshal error: %w", err)
	}

	r := rego.New(
		rego.Query(query),
		rego.Module("policy.rego", *policy),
		rego.Input(generic),
	)

	rs, err := r.Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy eval error: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, fmt.Errorf("policy produced no result for query %q", query)
	}

	doc, err := json.Marshal(rs[0].Expressions[0].Value)
	if err != nil {
		return nil, fmt.Errorf("policy result marshal error: %w", err)
	}
	out := new(T)
	if err := json.Unmarshal(doc, out); err != nil {
		return nil, fmt.Errorf("policy result decode error: %w", err)
	}
	return out, nil
}
