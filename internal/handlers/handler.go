package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/log"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/request"
)

// Response is the API Gateway proxy envelope shared by both handlers. The
// body is always a JSON-serialized object.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func respond(status int, payload map[string]any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal response body", "error", err)
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"message":"Internal error"}`,
		}
	}
	return Response{StatusCode: status, Body: string(body)}
}

func fail(status int, message string) Response {
	return respond(status, map[string]any{"message": message})
}

// decodeBody normalizes the event body and extracts credentials, or returns
// the 400 response describing what went wrong.
func decodeBody(evt request.Event) (*request.Credentials, *Response) {
	fields, err := request.Normalize(evt)
	if err != nil {
		resp := fail(http.StatusBadRequest, bodyErrorMessage(err))
		return nil, &resp
	}
	creds, err := request.DecodeCredentials(fields)
	if err != nil {
		resp := fail(http.StatusBadRequest, bodyErrorMessage(err))
		return nil, &resp
	}
	return creds, nil
}

func bodyErrorMessage(err error) string {
	if errors.Is(err, request.ErrMissingBody) {
		return "Missing request body"
	}
	return "Malformed request body"
}
