package identity

import (
	"context"
	"errors"
)

// DeliveryMode controls whether the provider sends the user a confirmation
// message when an account is created.
type DeliveryMode string

const (
	DeliverySuppress DeliveryMode = "suppress"
	DeliveryResend   DeliveryMode = "resend"
)

// Sentinel errors for the provider's distinguished failure kinds. Anything
// not covered here surfaces as a plain error carrying the provider's message.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrUserNotConfirmed = errors.New("user not confirmed")
)

// UserRecord describes a user held by the provider. Callers mostly only care
// that a record exists at all.
type UserRecord struct {
	Username string
	Status   string
}

// Tokens are issued on a successful authentication.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
}

// Provider is the identity service behind the handlers. All calls are
// synchronous and attempted exactly once per invocation.
type Provider interface {
	// LookupUser returns the record for username, or ErrUserNotFound.
	LookupUser(ctx context.Context, username string) (*UserRecord, error)

	// CreateUser creates a user with the given attributes. The delivery mode
	// decides whether a confirmation message is sent.
	CreateUser(ctx context.Context, username string, attrs map[string]string, delivery DeliveryMode) (*UserRecord, error)

	// SetPermanentPassword sets the user's password directly, bypassing the
	// provider's self-service reset flow.
	SetPermanentPassword(ctx context.Context, username, password string) error

	// Authenticate exchanges credentials for tokens. Failure kinds:
	// ErrNotAuthorized (wrong credentials), ErrUserNotConfirmed,
	// ErrUserNotFound, or a provider error.
	Authenticate(ctx context.Context, username, password string) (*Tokens, error)
}
