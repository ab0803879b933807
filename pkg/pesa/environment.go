package pesa

import (
	"fmt"
	"net/url"
	"strings"
)

// Environment selects the gateway deployment every endpoint is resolved against.
type Environment string

const (
	// EnvironmentSandbox is the developer sandbox.
	EnvironmentSandbox Environment = "sandbox"

	// EnvironmentProduction is the live gateway.
	EnvironmentProduction Environment = "production"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"
)

// ParseEnvironment parses an environment selector.
func ParseEnvironment(value string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sandbox", "dev", "development", "":
		return EnvironmentSandbox, nil
	case "production", "prod", "live":
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, value)
	}
}

// BaseURL returns the gateway root for the environment.
func (e Environment) BaseURL() (string, error) {
	switch e {
	case EnvironmentSandbox:
		return sandboxBaseURL, nil
	case EnvironmentProduction:
		return productionBaseURL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEnvironment, string(e))
	}
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	return string(e)
}

// Operation identifies one gateway endpoint.
type Operation string

// Operation kinds.
const (
	OperationCredentials       Operation = "credentials"
	OperationStkPush           Operation = "stk_push"
	OperationStkPushQuery      Operation = "stk_push_query"
	OperationDynamicQR         Operation = "dynamic_qr"
	OperationC2BRegisterURL    Operation = "c2b_register_url"
	OperationB2C               Operation = "b2c"
	OperationTransactionStatus Operation = "transaction_status"
	OperationAccountBalance    Operation = "account_balance"
	OperationReversal          Operation = "reversal"
	OperationB2B               Operation = "b2b"
)

var operationPaths = map[Operation]string{
	OperationCredentials:       "/oauth/v1/generate?grant_type=client_credentials",
	OperationStkPush:           "/mpesa/stkpush/v1/processrequest",
	OperationStkPushQuery:      "/mpesa/stkpushquery/v1/query",
	OperationDynamicQR:         "/mpesa/qrcode/v1/generate",
	OperationC2BRegisterURL:    "/mpesa/c2b/v1/registerurl",
	OperationB2C:               "/mpesa/b2c/v3/paymentrequest",
	OperationTransactionStatus: "/mpesa/transactionstatus/v1/query",
	OperationAccountBalance:    "/mpesa/accountbalance/v1/query",
	OperationReversal:          "/mpesa/reversal/v1/request",
	OperationB2B:               "/mpesa/b2b/v1/paymentrequest",
}

// Operations returns every declared operation kind, credentials first.
func Operations() []Operation {
	return []Operation{
		OperationCredentials,
		OperationStkPush,
		OperationStkPushQuery,
		OperationDynamicQR,
		OperationC2BRegisterURL,
		OperationB2C,
		OperationTransactionStatus,
		OperationAccountBalance,
		OperationReversal,
		OperationB2B,
	}
}

// Resolver maps operations to absolute endpoint URLs. It holds no mutable state.
type Resolver struct {
	env  Environment
	base string
}

// NewResolver builds a resolver for env. A non-empty baseOverride replaces the
// environment's root, e.g. for a proxy. Every operation is resolved once so an
// unusable configuration fails here rather than per call.
func NewResolver(env Environment, baseOverride string) (*Resolver, error) {
	base := strings.TrimSuffix(strings.TrimSpace(baseOverride), "/")
	if base == "" {
		envBase, err := env.BaseURL()
		if err != nil {
			return nil, err
		}

		base = envBase
	}

	resolver := &Resolver{env: env, base: base}

	for _, op := range Operations() {
		_, err := resolver.URL(op)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", op, err)
		}
	}

	return resolver, nil
}

// Environment returns the environment the resolver was built for.
func (r *Resolver) Environment() Environment {
	return r.env
}

// URL returns the absolute URL for op.
func (r *Resolver) URL(op Operation) (string, error) {
	path, ok := operationPaths[op]
	if !ok {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidEnvironment, ErrUnknownOperation, string(op))
	}

	raw := r.base + path

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEnvironment, err)
	}

	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidEnvironment, raw)
	}

	return raw, nil
}
