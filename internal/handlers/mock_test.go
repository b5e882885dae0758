package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/config"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/identity"
)

// mockProvider implements identity.Provider without any network. Lookup
// results are keyed by username; call counts track flow short-circuits.
type mockProvider struct {
	users map[string]*identity.UserRecord

	lookupErr  error // overrides not-found when set
	createErr  error
	passwdErr  error
	authErr    error
	authTokens *identity.Tokens

	lookupCalls int
	createCalls int
	passwdCalls int
	authCalls   int

	createdUsername string
	createdAttrs    map[string]string
	createdDelivery identity.DeliveryMode
}

func (m *mockProvider) LookupUser(ctx context.Context, username string) (*identity.UserRecord, error) {
	m.lookupCalls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if rec, ok := m.users[username]; ok {
		return rec, nil
	}
	return nil, identity.ErrUserNotFound
}

func (m *mockProvider) CreateUser(ctx context.Context, username string, attrs map[string]string, delivery identity.DeliveryMode) (*identity.UserRecord, error) {
	m.createCalls++
	m.createdUsername = username
	m.createdAttrs = attrs
	m.createdDelivery = delivery
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &identity.UserRecord{Username: username, Status: "FORCE_CHANGE_PASSWORD"}, nil
}

func (m *mockProvider) SetPermanentPassword(ctx context.Context, username, password string) error {
	m.passwdCalls++
	return m.passwdErr
}

func (m *mockProvider) Authenticate(ctx context.Context, username, password string) (*identity.Tokens, error) {
	m.authCalls++
	if m.authErr != nil {
		return nil, m.authErr
	}
	if m.authTokens != nil {
		return m.authTokens, nil
	}
	return &identity.Tokens{AccessToken: "at", IDToken: "it", RefreshToken: "rt"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		CognitoUserPoolID:    "us-east-1_testpool",
		CognitoClientID:      "testclient",
		PasswordLength:       6,
		ConfirmationDelivery: "suppress",
	}
}

func decodeMessage(t *testing.T, resp Response) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("response body is not JSON: %q", resp.Body)
	}
	return body.Message
}

func decodeBodyMap(t *testing.T, resp Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("response body is not JSON: %q", resp.Body)
	}
	return body
}
