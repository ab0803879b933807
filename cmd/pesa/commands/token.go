package commands

import (
	"time"

	"github.com/spf13/cobra"
)

// TokenStatus describes the cached bearer token without revealing it.
type TokenStatus struct {
	Token     string    `json:"token"      yaml:"token"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
	ExpiresIn string    `json:"expires_in" yaml:"expires_in"`
}

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the gateway access token",
	}

	cmd.AddCommand(newTokenFetchCommand())

	return cmd
}

func newTokenFetchCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Authenticate and show the access token status",
		Long:  "Obtain an access token (reusing a cached one while it is valid) and show when it expires",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory(cmd.Context())
			if err != nil {
				return err
			}

			token, err := client.Token(cmd.Context())
			if err != nil {
				return err
			}

			expiresAt, err := client.TokenExpiry(cmd.Context())
			if err != nil {
				return err
			}

			status := TokenStatus{
				Token:     Masked,
				ExpiresAt: expiresAt,
				ExpiresIn: time.Until(expiresAt).Round(time.Second).String(),
			}

			if reveal {
				status.Token = token
			}

			return renderOutput(cmd.OutOrStdout(), status, [][]string{
				{"Token", status.Token},
				{"Expires At", status.ExpiresAt.Format(time.RFC3339)},
				{"Expires In", status.ExpiresIn},
			})
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the token value")

	return cmd
}
