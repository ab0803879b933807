package pesa

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pesakit/pesakit-go/internal/constants"
)

// Client is the authenticated gateway client. Every operation obtains a
// bearer token (authenticating at most once across concurrent callers),
// posts the request and maps the reply into a response or an error.
type Client interface {
	PaymentClient
	AccountClient
	TokenClient
}

// PaymentClient groups the operations that move money or request payment.
type PaymentClient interface {
	StkPush(ctx context.Context, req *StkPushRequest) (*StkPushResponse, error)
	StkPushQuery(ctx context.Context, req *StkPushQueryRequest) (*StkPushQueryResponse, error)
	GenerateQR(ctx context.Context, req *DynamicQRRequest) (*DynamicQRResponse, error)
	RegisterC2BURL(ctx context.Context, req *C2BRegisterURLRequest) (*C2BRegisterURLResponse, error)
	B2CPayment(ctx context.Context, req *B2CRequest) (*B2CResponse, error)
	B2BPayment(ctx context.Context, req *B2BRequest) (*B2BResponse, error)
}

// AccountClient groups the account and transaction queries.
type AccountClient interface {
	AccountBalance(ctx context.Context, req *AccountBalanceRequest) (*AccountBalanceResponse, error)
	Reversal(ctx context.Context, req *ReversalRequest) (*ReversalResponse, error)
	TransactionStatus(ctx context.Context, req *TransactionStatusRequest) (*TransactionStatusResponse, error)
}

// TokenClient exposes the cached bearer token.
type TokenClient interface {
	// Token returns the current access token, authenticating if needed.
	Token(ctx context.Context) (string, error)
	// TokenExpiry returns the expiry of the cached token, or the zero time
	// when none is cached.
	TokenExpiry(ctx context.Context) (time.Time, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a pesa.Client.
//
// Credentials and environment are fixed for the lifetime of the client.
// Switching credentials requires a new client.
type Config struct {
	// ConsumerKey and ConsumerSecret are the gateway app credentials. Empty
	// values are accepted here and surface as ErrCredentialsNotSet on the
	// first operation, before any network call.
	ConsumerKey    string
	ConsumerSecret string

	// Environment selects the gateway base URL. Defaults to sandbox.
	Environment Environment `validate:"omitempty,oneof=sandbox production"`
	// BaseURL overrides the environment base URL (proxies, local stubs).
	BaseURL string `validate:"omitempty,url"`

	// HTTPTimeout bounds every outbound call. Defaults to 30s.
	HTTPTimeout time.Duration `validate:"gte=0"`
	// AuthTimeout bounds the shared authentication flight. Defaults to 15s.
	AuthTimeout time.Duration `validate:"gte=0"`
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger.
	Logger Logger `validate:"-"`

	// TokenStore holds the active bearer token. Defaults to an in-memory store.
	TokenStore TokenStore `validate:"-"`
	// Interceptors run around every gateway call.
	Interceptors *InterceptorChain `validate:"-"`
	// HTTPClient supplies a custom transport. Its Timeout is replaced by HTTPTimeout.
	HTTPClient *http.Client `validate:"-"`
}

// Credentials returns the configured key pair.
func (c *Config) Credentials() Credentials {
	return NewCredentials(c.ConsumerKey, c.ConsumerSecret)
}

// Validate checks the config and fills defaults.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if c.Environment == "" {
		c.Environment = EnvironmentSandbox
	}

	err := Validate(c)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	if c.AuthTimeout == 0 {
		c.AuthTimeout = constants.DefaultAuthTimeout
	}

	if c.UserAgent == "" {
		c.UserAgent = constants.DefaultUserAgent
	}

	if c.TokenStore == nil {
		c.TokenStore = NewMemoryTokenStore()
	}

	return nil
}
