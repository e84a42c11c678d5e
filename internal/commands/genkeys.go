package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/gob64/internal/config"
	"github.com/idelchi/gob64/internal/logic"
)

// NewGenkeysCommand creates a new cobra command for the genkeys subcommand.
func NewGenkeysCommand() *cobra.Command {
	var cfg config.Keygen

	cmd := &cobra.Command{
		Use:     "genkeys [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate an RSA key pair",
		Args:    cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return cobraext.Validate(&cfg, &cfg)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			return logic.RunKeygen(&cfg, logger)
		},
	}

	cmd.Flags().Int("size", 2048, "Key size in bits") //nolint:mnd
	cmd.Flags().String("public", "public.pem", "Output file for the public key")
	cmd.Flags().String("private", "private.pem", "Output file for the private key")

	return cmd
}
