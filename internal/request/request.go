package request

import (
	"encoding/json"
	"errors"

	"github.com/mitchellh/mapstructure"
)

var (
	ErrMissingBody   = errors.New("missing request body")
	ErrMalformedBody = errors.New("malformed request body")
)

// Event is the inbound invocation envelope. The body arrives either as a
// JSON-serialized string (API Gateway proxy integration) or as an
// already-structured object (direct invocation, test fixtures).
type Event struct {
	Body any `json:"body"`
}

// Credentials are the fields a signup or login request may carry.
type Credentials struct {
	Username string `mapstructure:"username" json:"username"`
	Email    string `mapstructure:"email" json:"email"`
	Password string `mapstructure:"password" json:"password"`
}

// Normalize produces the field mapping from an event body, parsing it when
// serialized and passing it through when already structured.
func Normalize(evt Event) (map[string]any, error) {
	switch body := evt.Body.(type) {
	case string:
		var fields map[string]any
		if err := json.Unmarshal([]byte(body), &fields); err != nil {
			return nil, ErrMalformedBody
		}
		return fields, nil
	case map[string]any:
		return body, nil
	default:
		return nil, ErrMissingBody
	}
}

// DecodeCredentials extracts the known credential fields from a normalized
// body. Unknown fields are ignored; wrongly typed known fields are rejected.
func DecodeCredentials(fields map[string]any) (*Credentials, error) {
	creds := &Credentials{}
	if err := mapstructure.Decode(fields, creds); err != nil {
		return nil, ErrMalformedBody
	}
	return creds, nil
}
