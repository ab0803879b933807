package pesa_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesakit/pesakit-go/pkg/pesa"
)

func TestConfig_ValidateDefaults(t *testing.T) {
	t.Parallel()

	config := &pesa.Config{ConsumerKey: "key", ConsumerSecret: "secret"}
	require.NoError(t, config.Validate())

	assert.Equal(t, pesa.EnvironmentSandbox, config.Environment)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
	assert.Equal(t, 15*time.Second, config.AuthTimeout)
	assert.NotEmpty(t, config.UserAgent)
	assert.NotNil(t, config.TokenStore)

	creds := config.Credentials()
	assert.True(t, creds.IsSet())
	assert.Equal(t, "key", creds.ConsumerKey())
}

func TestConfig_ValidateKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	store := pesa.NewMemoryTokenStore()
	config := &pesa.Config{
		Environment: pesa.EnvironmentProduction,
		HTTPTimeout: time.Second,
		AuthTimeout: 2 * time.Second,
		UserAgent:   "shop/2.0",
		TokenStore:  store,
	}
	require.NoError(t, config.Validate())

	assert.Equal(t, pesa.EnvironmentProduction, config.Environment)
	assert.Equal(t, time.Second, config.HTTPTimeout)
	assert.Equal(t, 2*time.Second, config.AuthTimeout)
	assert.Equal(t, "shop/2.0", config.UserAgent)
	assert.Same(t, store, config.TokenStore)
}

func TestConfig_ValidateRejects(t *testing.T) {
	t.Parallel()

	var nilConfig *pesa.Config
	require.ErrorIs(t, nilConfig.Validate(), pesa.ErrConfigRequired)

	tests := []struct {
		name   string
		config *pesa.Config
	}{
		{"environment", &pesa.Config{Environment: "staging"}},
		{"base url", &pesa.Config{BaseURL: "::not-a-url"}},
		{"negative timeout", &pesa.Config{HTTPTimeout: -time.Second}},
		{"negative auth timeout", &pesa.Config{AuthTimeout: -time.Second}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.config.Validate()
			require.Error(t, err)

			verr := &pesa.ValidationError{}
			assert.ErrorAs(t, err, &verr)
		})
	}
}
