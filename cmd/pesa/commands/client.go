package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pesakit/pesakit-go/internal/constants"
	"github.com/pesakit/pesakit-go/pkg/pesa"
	"github.com/pesakit/pesakit-go/pkg/pesakit"
)

// secretPrompt reads the consumer secret; replaced in tests.
var secretPrompt = promptSecret

func promptSecret() (string, error) {
	if !term.IsTerminal(syscall.Stdin) {
		return "", constants.ErrConsumerSecretRequired
	}

	_, _ = fmt.Fprint(os.Stderr, "Consumer secret: ")

	secretBytes, err := term.ReadPassword(syscall.Stdin)

	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read consumer secret: %w", err)
	}

	return strings.TrimSpace(string(secretBytes)), nil
}

// gatewayConfig builds the library config from the CLI config.
func gatewayConfig(config *Config) (*pesa.Config, error) {
	if config.ConsumerKey == "" {
		return nil, constants.ErrConsumerKeyRequired
	}

	secret := config.ConsumerSecret
	if secret == "" {
		var err error

		secret, err = secretPrompt()
		if err != nil {
			return nil, err
		}
	}

	env, err := pesa.ParseEnvironment(config.Environment)
	if err != nil {
		return nil, err
	}

	gwConfig := &pesa.Config{
		ConsumerKey:    config.ConsumerKey,
		ConsumerSecret: secret,
		Environment:    env,
		BaseURL:        config.BaseURL,
		HTTPTimeout:    config.Timeout,
		Debug:          config.Debug || viper.GetBool("debug"),
	}

	if gwConfig.Debug || viper.GetBool("verbose") {
		level := slog.LevelInfo
		if gwConfig.Debug {
			level = slog.LevelDebug
		}

		gwConfig.Logger = pesa.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	return gwConfig, nil
}

// newGatewayClient loads the CLI config and builds a client with the
// configured token store.
func newGatewayClient(ctx context.Context) (pesa.Client, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	gwConfig, err := gatewayConfig(config)
	if err != nil {
		return nil, err
	}

	client, err := pesakit.NewWithStore(ctx, gwConfig, config.storeConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
