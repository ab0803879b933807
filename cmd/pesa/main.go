package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pesakit/pesakit-go/cmd/pesa/commands"
	"github.com/pesakit/pesakit-go/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pesa",
	Short: "M-Pesa Daraja gateway CLI",
	Long: `A command-line interface for the M-Pesa Daraja payment gateway.

This CLI authenticates with your consumer key pair and issues STK push,
QR, C2B, B2C, B2B, balance, reversal and transaction status requests.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.pesa/config.yml)")
	rootCmd.PersistentFlags().StringP("environment", "e", "", "gateway environment (sandbox, production)")
	rootCmd.PersistentFlags().String("base-url", "", "override the gateway base URL")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "log HTTP requests and responses")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewStkPushCommand())
	rootCmd.AddCommand(commands.NewStkQueryCommand())
	rootCmd.AddCommand(commands.NewQRCommand())
	rootCmd.AddCommand(commands.NewC2BRegisterCommand())
	rootCmd.AddCommand(commands.NewB2CCommand())
	rootCmd.AddCommand(commands.NewB2BCommand())
	rootCmd.AddCommand(commands.NewBalanceCommand())
	rootCmd.AddCommand(commands.NewReversalCommand())
	rootCmd.AddCommand(commands.NewStatusCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.pesa/config.yml
		viper.AddConfigPath(filepath.Join(home, ".pesa"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("PESA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	err := viper.ReadInConfig()
	if err == nil && viper.GetBool("verbose") {
		_, _ = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
