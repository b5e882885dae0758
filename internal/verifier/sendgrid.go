package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/config"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/log"
)

type sendGridValidationResult struct {
	Email   string  `json:"email"`
	Verdict string  `json:"verdict"`
	Score   float32 `json:"score"`
}

type sendGridValidationResponse struct {
	Result sendGridValidationResult `json:"result"`
}

// SendGridEmailVerifier checks signup addresses via SendGrid's email
// validation API, short-circuiting for whitelisted domains.
type SendGridEmailVerifier struct {
	APIHost          string
	APIKey           string
	WhitelistEnabled bool
	Whitelist        *[]string
}

func NewSendGridVerifier(cfg *config.Config) (*SendGridEmailVerifier, error) {
	whitelistEnabled := cfg.EmailVerificationWhitelist != nil && len(*cfg.EmailVerificationWhitelist) > 0

	return &SendGridEmailVerifier{
		APIHost:          cfg.SendGridApiHost,
		APIKey:           cfg.SendGridEmailVerificationApiKey,
		WhitelistEnabled: whitelistEnabled,
		Whitelist:        cfg.EmailVerificationWhitelist,
	}, nil
}

func (v *SendGridEmailVerifier) VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error) {
	result, _ := v.verifyViaWhitelist(email)
	if result != nil {
		log.Debug("email domain was on whitelist", "email", email)
		return result, nil
	}
	return v.verifyViaAPI(ctx, email)
}

func (v *SendGridEmailVerifier) verifyViaWhitelist(email string) (*EmailVerificationResult, error) {
	if !v.WhitelistEnabled {
		return nil, nil
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, nil // invalid email format
	}

	at := strings.LastIndex(addr.Address, "@")
	if at == -1 || at == len(addr.Address)-1 {
		return nil, nil // no domain part
	}

	domain := strings.ToLower(addr.Address[at+1:])
	if !slices.Contains(*v.Whitelist, domain) {
		return nil, nil
	}

	return DefaultValidResult, nil
}

func (v *SendGridEmailVerifier) verifyViaAPI(ctx context.Context, email string) (*EmailVerificationResult, error) {
	request := sendgrid.GetRequest(v.APIKey, "/v3/validations/email", v.APIHost)
	request.Body = fmt.Appendf(request.Body, `{"email":"%s","source":"signup"}`, email)
	request.Method = "POST"

	response, err := sendgrid.API(request)
	if err != nil {
		return nil, fmt.Errorf("sendgrid api error: %w", err)
	}

	var payload sendGridValidationResponse
	if err := json.Unmarshal([]byte(response.Body), &payload); err != nil {
		return nil, fmt.Errorf("sendgrid unmarshal error: %w", err)
	}

	return &EmailVerificationResult{
		Score:   payload.Result.Score,
		IsValid: payload.Result.Verdict != "Invalid",
		Raw:     response.Body,
	}, nil
}
