package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/identity"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/request"
)

func newLoginHandler(mp *mockProvider) *LoginHandler {
	return &LoginHandler{Config: testConfig(), Provider: mp}
}

func TestLogin_Success(t *testing.T) {
	mp := &mockProvider{authTokens: &identity.Tokens{
		AccessToken:  "access_token_example",
		IDToken:      "id_token_example",
		RefreshToken: "refresh_token_example",
	}}
	h := newLoginHandler(mp)

	resp, err := h.Handle(context.Background(), request.Event{Body: `{"username":"u1","password":"secret1"}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, resp.Body)
	}

	body := decodeBodyMap(t, resp)
	if body["message"] != "Login successful" {
		t.Fatalf("message = %v", body["message"])
	}
	if body["access_token"] != "access_token_example" ||
		body["id_token"] != "id_token_example" ||
		body["refresh_token"] != "refresh_token_example" {
		t.Fatalf("unexpected tokens in body: %v", body)
	}
	if mp.authCalls != 1 {
		t.Fatalf("authenticate calls = %d, want exactly 1", mp.authCalls)
	}
}

func TestLogin_MissingIdentifier(t *testing.T) {
	mp := &mockProvider{}
	h := newLoginHandler(mp)

	resp, _ := h.Handle(context.Background(), request.Event{Body: `{"password":"secret1"}`})
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got := decodeMessage(t, resp); got != "Missing parameter: username or email" {
		t.Fatalf("message = %q", got)
	}
	if mp.authCalls != 0 {
		t.Fatal("authenticate must not run without an identifier")
	}
}

func TestLogin_MissingPassword(t *testing.T) {
	h := newLoginHandler(&mockProvider{})

	resp, _ := h.Handle(context.Background(), request.Event{Body: `{"username":"u1"}`})
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got := decodeMessage(t, resp); got != "Missing parameter: password" {
		t.Fatalf("message = %q", got)
	}
}

func TestLogin_InvalidEmailFormat(t *testing.T) {
	h := newLoginHandler(&mockProvider{})

	resp, _ := h.Handle(context.Background(), request.Event{Body: `{"email":"bad","password":"secret1"}`})
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got := decodeMessage(t, resp); got != "Invalid email format" {
		t.Fatalf("message = %q", got)
	}
}

func TestLogin_EmailAsIdentifier(t *testing.T) {
	mp := &mockProvider{}
	h := newLoginHandler(mp)

	resp, _ := h.Handle(context.Background(), request.Event{Body: `{"email":"u1@x.com","password":"secret1"}`})
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestLogin_UsernamePrecedesEmail(t *testing.T) {
	// When both identifiers are supplied, username wins.
	creds := &request.Credentials{Username: "u1", Email: "u1@x.com"}
	id, ok := resolveIdentifier(creds)
	if !ok || id.Kind != ByUsername || id.Value != "u1" {
		t.Fatalf("resolved %+v, want username u1", id)
	}
}

func TestLogin_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"wrong credentials", identity.ErrNotAuthorized, 401, "Incorrect username or password"},
		{"unconfirmed user", identity.ErrUserNotConfirmed, 403, "User is not confirmed"},
		{"unknown user", identity.ErrUserNotFound, 404, "User does not exist"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mp := &mockProvider{authErr: tc.err}
			h := newLoginHandler(mp)

			resp, _ := h.Handle(context.Background(), request.Event{Body: `{"username":"u1","password":"wrong"}`})
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if got := decodeMessage(t, resp); got != tc.wantMsg {
				t.Fatalf("message = %q, want %q", got, tc.wantMsg)
			}
			if mp.authCalls != 1 {
				t.Fatalf("authenticate calls = %d, want exactly 1 (no retries)", mp.authCalls)
			}
		})
	}
}

func TestLogin_UncategorizedProviderError(t *testing.T) {
	mp := &mockProvider{authErr: errors.New("TooManyRequestsException: rate exceeded")}
	h := newLoginHandler(mp)

	resp, _ := h.Handle(context.Background(), request.Event{Body: `{"username":"u1","password":"secret1"}`})
	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500 for uncategorized errors", resp.StatusCode)
	}
	if got := decodeMessage(t, resp); !strings.Contains(got, "rate exceeded") {
		t.Fatalf("message = %q, want provider text included", got)
	}
}

func TestLogin_BodyErrors(t *testing.T) {
	h := newLoginHandler(&mockProvider{})

	resp, _ := h.Handle(context.Background(), request.Event{})
	if resp.StatusCode != 400 || decodeMessage(t, resp) != "Missing request body" {
		t.Fatalf("absent body: %d %s", resp.StatusCode, resp.Body)
	}

	resp, _ = h.Handle(context.Background(), request.Event{Body: `not json`})
	if resp.StatusCode != 400 || decodeMessage(t, resp) != "Malformed request body" {
		t.Fatalf("junk body: %d %s", resp.StatusCode, resp.Body)
	}
}
