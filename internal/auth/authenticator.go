package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pesakit/pesakit-go/internal/constants"
	pesahttp "github.com/pesakit/pesakit-go/internal/http"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// Transport sends one HTTP request.
type Transport interface {
	Do(ctx context.Context, req *pesahttp.Request) (*pesahttp.Response, error)
}

// Grant is a freshly issued access token.
type Grant struct {
	AccessToken string
	ExpiresIn   int64
}

// Authenticator exchanges the consumer key pair for an access token.
type Authenticator struct {
	credentials pesa.Credentials
	resolver    *pesa.Resolver
	transport   Transport
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(credentials pesa.Credentials, resolver *pesa.Resolver, transport Transport) *Authenticator {
	return &Authenticator{
		credentials: credentials,
		resolver:    resolver,
		transport:   transport,
	}
}

// Authenticate performs one credential exchange. Empty credentials fail
// before any network call.
func (a *Authenticator) Authenticate(ctx context.Context) (*Grant, error) {
	authorization, err := a.credentials.AuthorizationValue()
	if err != nil {
		return nil, err
	}

	endpoint, err := a.resolver.URL(pesa.OperationCredentials)
	if err != nil {
		return nil, err
	}

	resp, err := a.transport.Do(ctx, &pesahttp.Request{
		Method:    http.MethodGet,
		URL:       endpoint,
		Operation: pesa.OperationCredentials,
		Headers: map[string]string{
			constants.HeaderAuthorization: authorization,
			constants.HeaderContentType:   constants.ContentTypeJSON,
		},
	})
	if err != nil {
		return nil, &pesa.NetworkError{Err: err}
	}

	if resp == nil {
		return nil, pesa.ErrUnknownFailure
	}

	return parseGrant(resp.StatusCode, resp.Body)
}

func parseGrant(statusCode int, body []byte) (*Grant, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		if statusCode == http.StatusBadRequest || statusCode == http.StatusUnauthorized {
			return nil, pesa.ErrInvalidCredentials
		}

		return nil, pesa.ErrUnknownFailure
	}

	gwErr := pesa.ParseGatewayError(statusCode, body)
	if gwErr != nil {
		if ge, ok := gwErr.(*pesa.GatewayError); ok {
			return nil, &pesa.AuthGatewayError{
				StatusCode:  ge.StatusCode,
				Code:        ge.Code,
				Description: ge.Message,
			}
		}

		return nil, gwErr
	}

	var payload tokenResponse

	err := json.Unmarshal(body, &payload)
	if err != nil || payload.AccessToken == "" {
		if err == nil {
			err = fmt.Errorf("status %d: missing access_token", statusCode)
		}

		return nil, fmt.Errorf("%w: %w", pesa.ErrParsingFailure, err)
	}

	if payload.ExpiresIn <= 0 {
		return nil, fmt.Errorf("%w: status %d: %w", pesa.ErrParsingFailure, statusCode, errExpiryNotPositive)
	}

	return &Grant{
		AccessToken: payload.AccessToken,
		ExpiresIn:   int64(payload.ExpiresIn),
	}, nil
}

var errExpiryNotPositive = errors.New("missing or non-positive expires_in")

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   expiresIn `json:"expires_in"`
}

// expiresIn accepts a JSON number or a numeric string.
type expiresIn int64

func (e *expiresIn) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*e = 0

		return nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fmt.Errorf("invalid expires_in %q: %w", raw, err)
		}

		n = int64(f)
	}

	*e = expiresIn(n)

	return nil
}
