package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pesakit/pesakit-go/internal/constants"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// Config represents the CLI configuration.
type Config struct {
	ConsumerKey    string        `json:"consumer_key,omitempty"    mapstructure:"consumer_key"    yaml:"consumer_key,omitempty"`
	ConsumerSecret string        `json:"consumer_secret,omitempty" mapstructure:"consumer_secret" yaml:"consumer_secret,omitempty"`
	Environment    string        `json:"environment,omitempty"     mapstructure:"environment"     yaml:"environment,omitempty"     validate:"omitempty,oneof=sandbox dev development production prod live"`
	BaseURL        string        `json:"base_url,omitempty"        mapstructure:"base_url"        yaml:"base_url,omitempty"        validate:"omitempty,url"`
	Timeout        time.Duration `json:"timeout,omitempty"         mapstructure:"timeout"         yaml:"timeout,omitempty"         validate:"gte=0"`
	Output         string        `json:"output,omitempty"          mapstructure:"output"          yaml:"output,omitempty"          validate:"omitempty,oneof=table json yaml"`
	Debug          bool          `json:"debug,omitempty"           mapstructure:"debug"           yaml:"debug,omitempty"`
	Store          StoreConfig   `json:"store"                     mapstructure:"store"           yaml:"store"`
}

// StoreConfig selects the token store backend.
type StoreConfig struct {
	Type string    `json:"type,omitempty" mapstructure:"type" yaml:"type,omitempty" validate:"omitempty,oneof=memory nats"`
	NATS NATSStore `json:"nats"           mapstructure:"nats" yaml:"nats"`
	KMS  KMSStore  `json:"kms"            mapstructure:"kms"  yaml:"kms"`
}

// NATSStore configures the JetStream KV token store.
type NATSStore struct {
	URL    string        `json:"url,omitempty"    mapstructure:"url"    yaml:"url,omitempty"`
	Bucket string        `json:"bucket,omitempty" mapstructure:"bucket" yaml:"bucket,omitempty"`
	TTL    time.Duration `json:"ttl,omitempty"    mapstructure:"ttl"    yaml:"ttl,omitempty"    validate:"gte=0"`
}

// KMSStore enables encryption of the stored token with an AWS KMS key.
type KMSStore struct {
	KeyID  string `json:"key_id,omitempty" mapstructure:"key_id" yaml:"key_id,omitempty"`
	Region string `json:"region,omitempty" mapstructure:"region" yaml:"region,omitempty"`
}

// configKeys lists every settable key; viper only unmarshals keys it knows.
var configKeys = []string{
	"consumer_key",
	"consumer_secret",
	"environment",
	"base_url",
	"timeout",
	"output",
	"debug",
	"store.type",
	"store.nats.url",
	"store.nats.bucket",
	"store.nats.ttl",
	"store.kms.key_id",
	"store.kms.region",
}

func registerDefaults() {
	for _, key := range configKeys {
		if !viper.IsSet(key) {
			viper.SetDefault(key, "")
		}
	}

	viper.SetDefault("output", constants.FormatTable)
	viper.SetDefault("debug", false)
	viper.SetDefault("timeout", constants.DefaultHTTPTimeout)
	viper.SetDefault("store.type", string(pesa.StoreTypeMemory))
	viper.SetDefault("store.nats.ttl", constants.DefaultNATSTTL)
}

// loadConfig reads the merged file, environment and flag configuration.
func loadConfig() (*Config, error) {
	registerDefaults()

	var config Config

	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	err = validator.New().Struct(&config)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// storeConfig converts the CLI store section into the library store config.
func (c *Config) storeConfig() *pesa.StoreConfig {
	storeConfig := &pesa.StoreConfig{Type: pesa.StoreType(c.Store.Type)}

	if storeConfig.Type == pesa.StoreTypeNATS {
		storeConfig.NATS = &pesa.NATSKVConfig{
			URL:    c.Store.NATS.URL,
			Bucket: c.Store.NATS.Bucket,
			TTL:    c.Store.NATS.TTL,
		}
	}

	if c.Store.KMS.KeyID != "" {
		storeConfig.KMS = &pesa.KMSConfig{
			KeyID:  c.Store.KMS.KeyID,
			Region: c.Store.KMS.Region,
		}
	}

	return storeConfig
}

// masked returns a copy safe to display.
func (c *Config) masked() *Config {
	cp := *c
	if cp.ConsumerSecret != "" {
		cp.ConsumerSecret = constants.MaskedValue
	}

	return &cp
}

// setConfigValue assigns one dotted key.
func setConfigValue(config *Config, key, value string) error {
	var err error

	switch key {
	case "consumer_key":
		config.ConsumerKey = value
	case "consumer_secret":
		config.ConsumerSecret = value
	case "environment":
		_, err = pesa.ParseEnvironment(value)
		config.Environment = value
	case "base_url":
		config.BaseURL = value
	case "timeout":
		config.Timeout, err = time.ParseDuration(value)
	case "output":
		config.Output = value
	case "debug":
		config.Debug = value == "true" || value == "1"
	case "store.type":
		config.Store.Type = value
	case "store.nats.url":
		config.Store.NATS.URL = value
	case "store.nats.bucket":
		config.Store.NATS.Bucket = value
	case "store.nats.ttl":
		config.Store.NATS.TTL, err = time.ParseDuration(value)
	case "store.kms.key_id":
		config.Store.KMS.KeyID = value
	case "store.kms.region":
		config.Store.KMS.Region = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	return validator.New().Struct(config)
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".pesa", "config.yml"), nil
}

func saveConfigStruct(config *Config, configFile string) error {
	err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage pesa CLI configuration including credentials, environment and token store",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the merged CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			display := config.masked()

			switch viper.GetString("output") {
			case constants.FormatJSON:
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				return encoder.Encode(display)
			case constants.FormatYAML:
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(display)
			default:
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.Header("Property", "Value")

				for _, row := range [][]string{
					{"Consumer Key", display.ConsumerKey},
					{"Consumer Secret", display.ConsumerSecret},
					{"Environment", display.Environment},
					{"Base URL", display.BaseURL},
					{"Timeout", display.Timeout.String()},
					{"Token Store", display.Store.Type},
					{"NATS URL", display.Store.NATS.URL},
					{"NATS Bucket", display.Store.NATS.Bucket},
					{"KMS Key", display.Store.KMS.KeyID},
				} {
					_ = table.Append(row[0], row[1])
				}

				err = table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = saveConfigStruct(config, configFile)
			if err != nil {
				return err
			}

			value := args[1]
			if args[0] == "consumer_secret" {
				value = constants.MaskedValue
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], value)

			return nil
		},
	}
}
