package handlers

import (
	"regexp"

	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/request"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IdentifierKind distinguishes how the caller identified the account.
type IdentifierKind int

const (
	ByUsername IdentifierKind = iota
	ByEmail
)

// Identifier is the resolved authentication identifier. Resolution happens
// once during validation; provider calls consume it as-is.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// resolveIdentifier picks the login identifier, preferring username over
// email when both are supplied.
func resolveIdentifier(creds *request.Credentials) (Identifier, bool) {
	if creds.Username != "" {
		return Identifier{Kind: ByUsername, Value: creds.Username}, true
	}
	if creds.Email != "" {
		return Identifier{Kind: ByEmail, Value: creds.Email}, true
	}
	return Identifier{}, false
}
