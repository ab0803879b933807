package constants

import "errors"

// CLI configuration errors.
var (
	ErrConsumerKeyRequired    = errors.New("consumer key not configured, use 'pesa config set consumer_key <key>'")
	ErrConsumerSecretRequired = errors.New("consumer secret not configured and no terminal to prompt for it")
	ErrUnknownConfigKey       = errors.New("unknown configuration key")
	ErrInvalidOutputFormat    = errors.New("invalid output format, expected table, json or yaml")
)

// CLI input errors.
var (
	ErrRequestFileRequired = errors.New("request file is required (--file)")
	ErrUnsupportedFileType = errors.New("unsupported request file type, expected .json, .yaml or .yml")
	ErrDirectoryTraversal  = errors.New("path contains directory traversal sequences")
	ErrPassKeyRequired     = errors.New("pass key is required to derive the STK password (--passkey)")
)
