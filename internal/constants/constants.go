package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for gateway operation calls.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultAuthTimeout bounds a single credential exchange.
	DefaultAuthTimeout = 15 * time.Second

	// ShortHTTPTimeout bounds quick dials such as a token store connection.
	ShortHTTPTimeout = 10 * time.Second
)

// HTTP header values.
const (
	// HeaderAuthorization is the authorization header name.
	HeaderAuthorization = "Authorization"

	// HeaderContentType is the content type header name.
	HeaderContentType = "Content-Type"

	// HeaderUserAgent is the user agent header name.
	HeaderUserAgent = "User-Agent"

	// ContentTypeJSON is the only content type the gateway speaks.
	ContentTypeJSON = "application/json"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "pesakit-go/1.0"

	// MaskedValue replaces secrets in logs.
	MaskedValue = "***"
)

// Token store defaults.
const (
	// DefaultTokenKey is the key a single-tenant token is stored under.
	DefaultTokenKey = "access_token"

	// DefaultNATSBucket is the JetStream KV bucket used for tokens.
	DefaultNATSBucket = "pesakit_tokens"

	// DefaultNATSTTL is the bucket max age; gateway tokens live one hour.
	DefaultNATSTTL = time.Hour
)

// Gateway payload defaults.
const (
	// TimestampLayout is the gateway timestamp format (yyyyMMddHHmmss).
	TimestampLayout = "20060102150405"

	// DefaultIdentifierType identifies an organisation short code.
	DefaultIdentifierType = "4"

	// ReversalIdentifierType identifies the receiver of a reversal.
	ReversalIdentifierType = "11"

	// DefaultQRSize is the default QR image size in pixels.
	DefaultQRSize = "300"

	// CommandAccountBalance is the fixed command for balance queries.
	CommandAccountBalance = "AccountBalance"

	// CommandTransactionReversal is the fixed command for reversals.
	CommandTransactionReversal = "TransactionReversal"

	// CommandTransactionStatus is the fixed command for status queries.
	CommandTransactionStatus = "TransactionStatusQuery"
)

// Format constants.
const (
	// FormatJSON is the JSON output format.
	FormatJSON = "json"

	// FormatYAML is the YAML output format.
	FormatYAML = "yaml"

	// FormatTable is the table output format.
	FormatTable = "table"
)

// CLI argument counts.
const (
	// MinimumArgumentCount is the arity of key/value commands.
	MinimumArgumentCount = 2
)
