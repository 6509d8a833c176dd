package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// ValidationError represents a specific type of API key validation failure.
type ValidationError struct {
	Type    ValidationErrorType
	Message string
	Err     error
}

// ValidationErrorType categorizes validation failures.
type ValidationErrorType int

const (
	// ErrTypeInvalidKey indicates the API key is invalid or revoked.
	ErrTypeInvalidKey ValidationErrorType = iota
	// ErrTypeNetworkError indicates a network connectivity issue.
	ErrTypeNetworkError
	// ErrTypeQuotaExceeded indicates the API quota has been exceeded.
	ErrTypeQuotaExceeded
	// ErrTypeUnknown indicates an unknown error occurred.
	ErrTypeUnknown
)

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validationModel is a cheap free-tier model used for the probe call.
const validationModel = "gemini-2.5-flash-lite"

// Validate verifies the keychain's current key with a minimal API call and
// marks it valid on success. On failure it returns a ValidationError
// describing what went wrong.
func (k *Keychain) Validate(ctx context.Context) error {
	key := k.Key()
	if key == "" {
		return &ValidationError{Type: ErrTypeInvalidKey, Message: "no API key selected"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return &ValidationError{Type: ErrTypeUnknown, Message: "failed to create API client", Err: err}
	}

	log.Debug().Msg("Validating API key with a probe call")
	resp, err := client.Models.GenerateContent(ctx, validationModel, genai.Text("hi"), nil)
	if err != nil {
		return classifyError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return &ValidationError{Type: ErrTypeUnknown, Message: "API returned empty response"}
	}

	k.MarkValid()
	log.Info().Msg("API key validated")
	return nil
}

// IsEntityNotFound reports whether an error belongs to the authorization
// failure class the generation API returns for unusable keys ("Requested
// entity was not found"). Callers invalidate the keychain when it matches.
func IsEntityNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "requested entity was not found") {
		return true
	}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 404 {
		return true
	}
	return false
}

// classifyError analyzes an error and returns a ValidationError with the
// appropriate type.
func classifyError(err error) *ValidationError {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 400, 401, 403:
			return &ValidationError{Type: ErrTypeInvalidKey, Message: "API key is invalid, expired, or lacks permissions", Err: err}
		case 429:
			return &ValidationError{Type: ErrTypeQuotaExceeded, Message: "API rate limit exceeded - try again later", Err: err}
		case 500, 502, 503, 504:
			return &ValidationError{Type: ErrTypeNetworkError, Message: "Gemini API server error - try again later", Err: err}
		default:
			return &ValidationError{Type: ErrTypeUnknown, Message: apiErr.Message, Err: err}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "permission denied"):
		return &ValidationError{Type: ErrTypeInvalidKey, Message: "API key is invalid or has been revoked", Err: err}
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "rate limit"):
		return &ValidationError{Type: ErrTypeQuotaExceeded, Message: "API quota exceeded or rate limited", Err: err}
	case strings.Contains(msg, "connection"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "dial"),
		strings.Contains(msg, "no such host"):
		return &ValidationError{Type: ErrTypeNetworkError, Message: "Network error - check your internet connection", Err: err}
	default:
		return &ValidationError{Type: ErrTypeUnknown, Message: "Failed to validate API key", Err: err}
	}
}
