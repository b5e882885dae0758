package verifier

import "context"

// EmailVerificationResult is the outcome of a deliverability check on a
// candidate signup address.
type EmailVerificationResult struct {
	Score        float32 `json:"score"`
	IsValid      bool    `json:"valid"`
	IsDisposable bool    `json:"disposable"`
	IsRoleBased  bool    `json:"role"`
	Raw          string  `json:"raw"`
}

var DefaultValidResult = &EmailVerificationResult{
	Score:   100.0,
	IsValid: true,
	Raw:     "{}",
}

type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error)
}
