package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/config"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/identity"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/request"
)

// LoginHandler validates login requests and exchanges credentials for
// tokens with the identity provider.
type LoginHandler struct {
	Config   *config.Config
	Provider identity.Provider
}

func NewLoginHandler(ctx context.Context, cfg *config.Config) (*LoginHandler, error) {
	provider, err := identity.NewCognitoProvider(ctx, cfg.CognitoUserPoolID, cfg.CognitoClientID)
	if err != nil {
		return nil, fmt.Errorf("cognito init error: %w", err)
	}
	return &LoginHandler{Config: cfg, Provider: provider}, nil
}

func (h *LoginHandler) Handle(ctx context.Context, evt request.Event) (Response, error) {
	creds, errResp := decodeBody(evt)
	if errResp != nil {
		return *errResp, nil
	}

	identifier, ok := resolveIdentifier(creds)
	if !ok {
		return fail(http.StatusBadRequest, "Missing parameter: username or email"), nil
	}
	if creds.Password == "" {
		return fail(http.StatusBadRequest, "Missing parameter: password"), nil
	}
	if creds.Email != "" && !validEmail(creds.Email) {
		return fail(http.StatusBadRequest, "Invalid email format"), nil
	}

	tokens, err := h.Provider.Authenticate(ctx, identifier.Value, creds.Password)
	if err != nil {
		return mapAuthError(err), nil
	}

	return respond(http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  tokens.AccessToken,
		"id_token":      tokens.IDToken,
		"refresh_token": tokens.RefreshToken,
	}), nil
}

// mapAuthError is a total map from provider failures to responses. Anything
// outside the sentinel taxonomy carries the provider's message as a 500.
func mapAuthError(err error) Response {
	switch {
	case errors.Is(err, identity.ErrNotAuthorized):
		return fail(http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, identity.ErrUserNotConfirmed):
		return fail(http.StatusForbidden, "User is not confirmed")
	case errors.Is(err, identity.ErrUserNotFound):
		return fail(http.StatusNotFound, "User does not exist")
	default:
		return fail(http.StatusInternalServerError, fmt.Sprintf("Error: %s", err))
	}
}
