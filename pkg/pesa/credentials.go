package pesa

import (
	"encoding/base64"
	"fmt"
)

// Credentials is the consumer key pair issued for a gateway app.
// The fields are unexported so the pair cannot change after construction.
type Credentials struct {
	consumerKey    string
	consumerSecret string
}

// NewCredentials creates a credential pair.
func NewCredentials(consumerKey, consumerSecret string) Credentials {
	return Credentials{consumerKey: consumerKey, consumerSecret: consumerSecret}
}

// ConsumerKey returns the public half of the pair.
func (c Credentials) ConsumerKey() string {
	return c.consumerKey
}

// IsSet reports whether both halves are present.
func (c Credentials) IsSet() bool {
	return c.consumerKey != "" && c.consumerSecret != ""
}

// AuthorizationValue returns the Basic authorization header value.
func (c Credentials) AuthorizationValue() (string, error) {
	if !c.IsSet() {
		return "", ErrCredentialsNotSet
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))

	return "Basic " + encoded, nil
}

// String redacts the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{ConsumerKey: %q, ConsumerSecret: %s}", c.consumerKey, redact(c.consumerSecret))
}

// GoString redacts the secret for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

func redact(secret string) string {
	if secret == "" {
		return `""`
	}

	return "***"
}
