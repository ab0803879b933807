package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pesahttp "github.com/pesakit/pesakit-go/internal/http"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

func newTestAuthenticator(t *testing.T, creds pesa.Credentials, handler http.HandlerFunc) (*Authenticator, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	resolver, err := pesa.NewResolver(pesa.EnvironmentSandbox, server.URL)
	require.NoError(t, err)

	return NewAuthenticator(creds, resolver, pesahttp.NewClient()), &calls
}

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("issues a grant", func(t *testing.T) {
		t.Parallel()

		authenticator, calls := newTestAuthenticator(t, pesa.NewCredentials("key", "secret"), func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/oauth/v1/generate", r.URL.Path)
			assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
			assert.Equal(t, http.MethodGet, r.Method)

			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)

			_, _ = w.Write([]byte(`{"access_token":"abc","expires_in":"3599"}`))
		})

		grant, err := authenticator.Authenticate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "abc", grant.AccessToken)
		assert.Equal(t, int64(3599), grant.ExpiresIn)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("empty credentials make no call", func(t *testing.T) {
		t.Parallel()

		authenticator, calls := newTestAuthenticator(t, pesa.NewCredentials("", ""), func(w http.ResponseWriter, r *http.Request) {})

		_, err := authenticator.Authenticate(context.Background())
		require.ErrorIs(t, err, pesa.ErrCredentialsNotSet)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("rejected without body", func(t *testing.T) {
		t.Parallel()

		authenticator, _ := newTestAuthenticator(t, pesa.NewCredentials("key", "wrong"), func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})

		_, err := authenticator.Authenticate(context.Background())
		require.ErrorIs(t, err, pesa.ErrInvalidCredentials)
	})

	t.Run("oauth error body", func(t *testing.T) {
		t.Parallel()

		authenticator, _ := newTestAuthenticator(t, pesa.NewCredentials("key", "secret"), func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Invalid client credentials"}`))
		})

		_, err := authenticator.Authenticate(context.Background())

		authErr := &pesa.AuthGatewayError{}
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "invalid_client", authErr.Code)
		assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	})

	t.Run("gateway error body", func(t *testing.T) {
		t.Parallel()

		authenticator, _ := newTestAuthenticator(t, pesa.NewCredentials("key", "secret"), func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"requestId":"r-1","errorCode":"400.008.01","errorMessage":"Invalid Authentication passed"}`))
		})

		_, err := authenticator.Authenticate(context.Background())

		authErr := &pesa.AuthGatewayError{}
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "400.008.01", authErr.Code)
		assert.Equal(t, "Invalid Authentication passed", authErr.Description)
	})

	t.Run("unparseable body", func(t *testing.T) {
		t.Parallel()

		authenticator, _ := newTestAuthenticator(t, pesa.NewCredentials("key", "secret"), func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		})

		_, err := authenticator.Authenticate(context.Background())
		require.ErrorIs(t, err, pesa.ErrParsingFailure)
	})

	t.Run("missing access token", func(t *testing.T) {
		t.Parallel()

		authenticator, _ := newTestAuthenticator(t, pesa.NewCredentials("key", "secret"), func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"expires_in":"3599"}`))
		})

		_, err := authenticator.Authenticate(context.Background())
		require.ErrorIs(t, err, pesa.ErrParsingFailure)
	})

	t.Run("missing or non-positive expiry", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{
			`{"access_token":"abc"}`,
			`{"access_token":"abc","expires_in":"0"}`,
			`{"access_token":"abc","expires_in":-5}`,
		} {
			authenticator, _ := newTestAuthenticator(t, pesa.NewCredentials("key", "secret"), func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			grant, err := authenticator.Authenticate(context.Background())
			require.ErrorIs(t, err, pesa.ErrParsingFailure, body)
			assert.Nil(t, grant)
		}
	})

	t.Run("empty success body", func(t *testing.T) {
		t.Parallel()

		authenticator, _ := newTestAuthenticator(t, pesa.NewCredentials("key", "secret"), func(w http.ResponseWriter, r *http.Request) {})

		_, err := authenticator.Authenticate(context.Background())
		require.ErrorIs(t, err, pesa.ErrUnknownFailure)
	})
}

type failingTransport struct{ err error }

func (f failingTransport) Do(context.Context, *pesahttp.Request) (*pesahttp.Response, error) {
	return nil, f.err
}

type emptyTransport struct{}

func (emptyTransport) Do(context.Context, *pesahttp.Request) (*pesahttp.Response, error) {
	return nil, nil
}

func TestAuthenticator_TransportFailures(t *testing.T) {
	t.Parallel()

	resolver, err := pesa.NewResolver(pesa.EnvironmentSandbox, "")
	require.NoError(t, err)

	cause := errors.New("dial tcp: connection refused")

	_, err = NewAuthenticator(pesa.NewCredentials("key", "secret"), resolver, failingTransport{err: cause}).Authenticate(context.Background())

	netErr := &pesa.NetworkError{}
	require.ErrorAs(t, err, &netErr)
	require.ErrorIs(t, err, cause)

	_, err = NewAuthenticator(pesa.NewCredentials("key", "secret"), resolver, emptyTransport{}).Authenticate(context.Background())
	require.ErrorIs(t, err, pesa.ErrUnknownFailure)
}

func TestExpiresIn_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want int64
	}{
		{`{"access_token":"a","expires_in":3599}`, 3599},
		{`{"access_token":"a","expires_in":"3599"}`, 3599},
		{`{"access_token":"a","expires_in":3599.0}`, 3599},
		{`{"access_token":"a","expires_in":null}`, 0},
		{`{"access_token":"a"}`, 0},
	}

	for _, tc := range tests {
		grant, err := parseGrant(http.StatusOK, []byte(tc.body))
		require.NoError(t, err, tc.body)
		assert.Equal(t, tc.want, grant.ExpiresIn, tc.body)
	}

	_, err := parseGrant(http.StatusOK, []byte(`{"access_token":"a","expires_in":"soon"}`))
	require.ErrorIs(t, err, pesa.ErrParsingFailure)
}
