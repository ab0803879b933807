package pesa

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Static errors for err113 compliance.
var (
	// ErrCredentialsNotSet is returned when the consumer key or secret is empty.
	ErrCredentialsNotSet = errors.New("credentials not set")

	// ErrInvalidCredentials is returned when the credential endpoint rejects the key pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidAccessToken is returned when no valid token is available after authenticating.
	ErrInvalidAccessToken = errors.New("invalid access token")

	// ErrInvalidEnvironment is returned when an endpoint URL cannot be built.
	ErrInvalidEnvironment = errors.New("invalid environment")

	// ErrParsingFailure is returned when a response body does not match the expected shape.
	ErrParsingFailure = errors.New("parsing failure")

	// ErrUnknownFailure is returned when the transport yields neither data nor a cause.
	ErrUnknownFailure = errors.New("unknown failure")
)

// Configuration ordering errors.
var (
	ErrAlreadyConfigured   = errors.New("pesakit is already configured")
	ErrNotConfigured       = errors.New("pesakit is not configured")
	ErrConfigRequired      = errors.New("config is required")
	ErrUnknownEnvironment  = errors.New("unknown environment")
	ErrUnknownOperation    = errors.New("unknown operation")
	ErrTokenStoreRequired  = errors.New("token store is required")
	ErrCipherRequired      = errors.New("cipher is required")
	ErrNATSConfigRequired  = errors.New("NATS configuration required for NATS token store")
	ErrUnsupportedStore    = errors.New("unsupported token store type")
	ErrKMSKeyRequired      = errors.New("KMS key ID is required")
	ErrMalformedStoreEntry = errors.New("malformed token store entry")
)

// EncodingError reports an outbound request that could not be validated or serialized.
type EncodingError struct {
	Request string
	Err     error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Err == nil {
		return "cannot encode " + e.Request + " body"
	}

	return fmt.Sprintf("cannot encode %s body: %v", e.Request, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// NetworkError reports a transport level failure.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// GatewayError is a structured error payload returned by an operation endpoint.
type GatewayError struct {
	StatusCode int    `json:"-"`
	RequestID  string `json:"requestId,omitempty"    yaml:"requestId,omitempty"`
	Code       string `json:"errorCode,omitempty"    yaml:"errorCode,omitempty"`
	Message    string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "gateway error"
	}

	if e.Code == "" {
		return fmt.Sprintf("%s (status: %d)", msg, e.StatusCode)
	}

	return fmt.Sprintf("%s (code: %s)", msg, e.Code)
}

// AuthGatewayError is a structured error payload in the OAuth style.
type AuthGatewayError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error,omitempty"             yaml:"error,omitempty"`
	Description string `json:"error_description,omitempty" yaml:"error_description,omitempty"`
}

// Error implements the error interface.
func (e *AuthGatewayError) Error() string {
	if e.Description == "" {
		return "authentication error: " + e.Code
	}

	return fmt.Sprintf("authentication error: %s: %s", e.Code, e.Description)
}

// errorEnvelope covers both error shapes the gateway emits.
type errorEnvelope struct {
	RequestID        string `json:"requestId"`
	ErrorCode        string `json:"errorCode"`
	ErrorMessage     string `json:"errorMessage"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ParseGatewayError inspects a response body for either gateway error shape.
// It returns nil when the body is not error-shaped.
func ParseGatewayError(statusCode int, data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	var env errorEnvelope

	err := json.Unmarshal(data, &env)
	if err != nil {
		return nil
	}

	if env.ErrorCode != "" || env.ErrorMessage != "" {
		return &GatewayError{
			StatusCode: statusCode,
			RequestID:  env.RequestID,
			Code:       env.ErrorCode,
			Message:    env.ErrorMessage,
		}
	}

	if env.Error != "" || env.ErrorDescription != "" {
		return &AuthGatewayError{
			StatusCode:  statusCode,
			Code:        env.Error,
			Description: env.ErrorDescription,
		}
	}

	return nil
}

// IsGatewayError reports whether err carries a gateway error payload with the given code.
// An empty code matches any gateway error.
func IsGatewayError(err error, code string) bool {
	gwErr := &GatewayError{}
	if errors.As(err, &gwErr) {
		return code == "" || gwErr.Code == code
	}

	return false
}

// IsInvalidAccessToken checks if the error is an access token failure.
func IsInvalidAccessToken(err error) bool {
	return errors.Is(err, ErrInvalidAccessToken)
}

// IsNetworkError checks if the error is a transport failure.
func IsNetworkError(err error) bool {
	netErr := &NetworkError{}

	return errors.As(err, &netErr)
}
