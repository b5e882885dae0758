package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/config"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/identity"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/log"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/policy"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/request"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/verifier"
)

// RegisterHandler validates signup requests, enforces uniqueness of email
// and username, creates the user, and sets a permanent password.
type RegisterHandler struct {
	Config        *config.Config
	Provider      identity.Provider
	EmailVerifier verifier.EmailVerifier // nil when verification is disabled
	Policy        *string                // nil when no signup policy is configured
	PolicyQuery   *string
}

func NewRegisterHandler(ctx context.Context, cfg *config.Config) (*RegisterHandler, error) {
	provider, err := identity.NewCognitoProvider(ctx, cfg.CognitoUserPoolID, cfg.CognitoClientID)
	if err != nil {
		return nil, fmt.Errorf("cognito init error: %w", err)
	}

	h := &RegisterHandler{Config: cfg, Provider: provider}

	if cfg.EmailVerificationEnabled {
		v, err := verifier.NewSendGridVerifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("sendgrid init error: %w", err)
		}
		h.EmailVerifier = v
	}

	if cfg.AppPolicyPath != "" {
		src, err := policy.Read(cfg.AppPolicyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy at path: %s", cfg.AppPolicyPath)
		}
		query := policy.RegisterQuery
		h.Policy = src
		h.PolicyQuery = &query
	}

	return h, nil
}

func (h *RegisterHandler) Handle(ctx context.Context, evt request.Event) (Response, error) {
	creds, errResp := decodeBody(evt)
	if errResp != nil {
		return *errResp, nil
	}

	if creds.Username == "" {
		return fail(http.StatusBadRequest, "Missing parameter: username"), nil
	}
	if creds.Password == "" {
		return fail(http.StatusBadRequest, "Missing parameter: password"), nil
	}
	if creds.Email == "" {
		return fail(http.StatusBadRequest, "Missing parameter: email"), nil
	}
	if !validEmail(creds.Email) {
		return fail(http.StatusBadRequest, "Invalid email format"), nil
	}
	if n := h.Config.PasswordLength; n > 0 && len(creds.Password) != n {
		return fail(http.StatusBadRequest, fmt.Sprintf("Password must be exactly %d characters long", n)), nil
	}

	verification := h.verifyEmail(ctx, creds.Email)
	if verification != nil && !verification.IsValid {
		return fail(http.StatusBadRequest, "Email address failed verification"), nil
	}

	if resp := h.applyPolicy(ctx, creds, verification); resp != nil {
		return *resp, nil
	}

	// Uniqueness checks. A found record terminates the flow; only a clean
	// not-found lets registration proceed.
	if _, err := h.Provider.LookupUser(ctx, creds.Email); err == nil {
		return fail(http.StatusBadRequest, "Email already exists"), nil
	} else if !errors.Is(err, identity.ErrUserNotFound) {
		return fail(http.StatusInternalServerError, fmt.Sprintf("Error: %s", err)), nil
	}

	if _, err := h.Provider.LookupUser(ctx, creds.Username); err == nil {
		return fail(http.StatusBadRequest, "Username already exists"), nil
	} else if !errors.Is(err, identity.ErrUserNotFound) {
		return fail(http.StatusInternalServerError, fmt.Sprintf("Error: %s", err)), nil
	}

	attrs := map[string]string{"email": creds.Email}
	delivery := identity.DeliveryMode(h.Config.ConfirmationDelivery)

	record, err := h.Provider.CreateUser(ctx, creds.Username, attrs, delivery)
	if err != nil {
		return fail(http.StatusInternalServerError, fmt.Sprintf("Error: %s", err)), nil
	}
	log.Info("user created", "username", creds.Username, "status", record.Status)

	if err := h.Provider.SetPermanentPassword(ctx, creds.Username, creds.Password); err != nil {
		return fail(http.StatusInternalServerError, fmt.Sprintf("Error: %s", err)), nil
	}

	return respond(http.StatusOK, map[string]any{
		"message":  "User created successfully",
		"username": creds.Username,
	}), nil
}

func (h *RegisterHandler) verifyEmail(ctx context.Context, email string) *verifier.EmailVerificationResult {
	if h.EmailVerifier == nil {
		return nil
	}
	result, err := h.EmailVerifier.VerifyEmail(ctx, email)
	if err != nil {
		// An unreachable verifier is not the user's fault; treat as
		// inconclusive and let registration continue.
		log.Warn("email verification error", "error", err)
	}
	return result
}

// applyPolicy consults the configured signup policy, returning the 400
// response for a deny decision. Evaluation failures allow the signup.
func (h *RegisterHandler) applyPolicy(ctx context.Context, creds *request.Credentials, verification *verifier.EmailVerificationResult) *Response {
	if h.Policy == nil {
		return nil
	}

	input := &policy.RegisterInput{
		Username:          creds.Username,
		Email:             creds.Email,
		EmailVerification: verification,
	}
	output, err := policy.Evaluate[policy.RegisterOutput](ctx, h.Policy, *h.PolicyQuery, input)
	if err != nil {
		log.Error("failed to evaluate policy", "error", err)
		return nil
	}

	if output.Action == "deny" {
		reason := output.Reason
		if reason == "" {
			reason = "Registration denied by policy"
		}
		resp := fail(http.StatusBadRequest, reason)
		return &resp
	}
	return nil
}
