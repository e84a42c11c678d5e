package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gob64/internal/config"
	"github.com/idelchi/gob64/internal/logic"
)

// NewEncodeCommand creates a new cobra command for the encode subcommand.
func NewEncodeCommand() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:     "encode [flags] <input> <output>",
		Aliases: []string{"enc"},
		Short:   "Encode a file into base64 frames",
		Example: `  gob64 encode input.dat output.b64 -c -s "MySecretSalt" -e public.pem
  gob64 encode video.mp4 output.b64 -c`,
		Args:    cobra.ExactArgs(2), //nolint:mnd
		PreRunE: preRun(&cfg, config.ModeEncode),
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			return logic.Run(cmd.Context(), &cfg, logger)
		},
	}

	addCodecFlags(cmd)

	cmd.Flags().BoolP("compress", "c", false, "Compress every chunk with zlib")
	cmd.Flags().StringP("encrypt", "e", "", "Path to a PEM RSA public key to wrap every chunk with")

	return cmd
}
