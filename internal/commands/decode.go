package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gob64/internal/config"
	"github.com/idelchi/gob64/internal/logic"
)

// NewDecodeCommand creates a new cobra command for the decode subcommand.
func NewDecodeCommand() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:     "decode [flags] <input> <output>",
		Aliases: []string{"dec"},
		Short:   "Decode base64 frames back into the original file",
		Example: `  gob64 decode output.b64 restored.dat -s "MySecretSalt" -d private.pem`,
		Args:    cobra.ExactArgs(2), //nolint:mnd
		PreRunE: preRun(&cfg, config.ModeDecode),
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			return logic.Run(cmd.Context(), &cfg, logger)
		},
	}

	addCodecFlags(cmd)

	cmd.Flags().StringP("decrypt", "d", "", "Path to the PEM RSA private key matching the encoding public key")

	return cmd
}
