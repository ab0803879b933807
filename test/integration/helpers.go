//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pesakit/pesakit-go/pkg/pesa"
	"github.com/pesakit/pesakit-go/pkg/pesakit"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	PassKey        string
	ShortCode      string
	PhoneNumber    string
	CallbackURL    string
	NATSURL        string
	Verbose        bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		ConsumerKey:    os.Getenv("PESA_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("PESA_CONSUMER_SECRET"),
		PassKey:        os.Getenv("PESA_PASS_KEY"),
		ShortCode:      envOr("PESA_SHORT_CODE", "174379"),
		PhoneNumber:    envOr("PESA_PHONE_NUMBER", "254708374149"),
		CallbackURL:    envOr("PESA_CALLBACK_URL", "https://example.com/pesa/callback"),
		NATSURL:        os.Getenv("PESA_NATS_URL"),
		Verbose:        os.Getenv("PESA_VERBOSE") == "true",
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

// SkipIfMissingCredentials skips tests that need the sandbox.
func (config *TestConfig) SkipIfMissingCredentials(t *testing.T) {
	t.Helper()

	if config.ConsumerKey == "" || config.ConsumerSecret == "" {
		t.Skip("PESA_CONSUMER_KEY/PESA_CONSUMER_SECRET not set, skipping integration test")
	}
}

// SkipIfMissingNATS skips tests that need a JetStream enabled server.
func (config *TestConfig) SkipIfMissingNATS(t *testing.T) {
	t.Helper()

	if config.NATSURL == "" {
		t.Skip("PESA_NATS_URL not set, skipping integration test")
	}
}

// NewSandboxClient builds a client against the sandbox.
func (config *TestConfig) NewSandboxClient(t *testing.T, store pesa.TokenStore) pesa.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pesakit.New(ctx, &pesa.Config{
		ConsumerKey:    config.ConsumerKey,
		ConsumerSecret: config.ConsumerSecret,
		Environment:    pesa.EnvironmentSandbox,
		TokenStore:     store,
		Debug:          config.Verbose,
		Logger:         testLogger{t: t},
	})
	require.NoError(t, err)

	return client
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Debug(msg string, fields map[string]interface{}) { l.t.Log("DEBUG", msg, fields) }
func (l testLogger) Info(msg string, fields map[string]interface{})  { l.t.Log("INFO", msg, fields) }
func (l testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Log("WARN", msg, fields) }
func (l testLogger) Error(msg string, fields map[string]interface{}) { l.t.Log("ERROR", msg, fields) }
