// Package commands provides the command-line interface for the gob64 tool.
//
// It implements commands for:
//   - encoding files into frames
//   - decoding frames back into files
//   - generating RSA key pairs
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
// Every flag can also be set as GOB64_<FLAG> or in a YAML file passed with --config.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/gob64/internal/config"
	"github.com/idelchi/gob64/internal/logging"
)

// readConfigFile merges the file named by --config into the flag and environment settings.
func readConfigFile(_ *cobra.Command, _ []string) error {
	path := viper.GetString("config")
	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}

// preRun returns a PreRunE handler that resolves the positional arguments into cfg,
// validates the configuration and drops settings the mode does not use.
func preRun(cfg *config.Config, mode config.Mode) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Mode = mode
		cfg.Input, cfg.Output = args[0], args[1]

		if err := cobraext.Validate(cfg, cfg); err != nil {
			return err
		}

		cfg.Normalize()

		return nil
	}
}

// addCodecFlags registers the flags shared by encode and decode.
func addCodecFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("threads", "t", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	cmd.Flags().StringP("salt", "s", "", "Salt tag mixed into every chunk, must match between encode and decode")
	cmd.Flags().Bool("lenient", false,
		"Pass chunks through unchanged when encryption or decryption fails. "+
			"Without it such chunks are dropped and the run fails")
}

// newLogger builds the stderr logger for the given level name.
func newLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return logging.New(os.Stderr, lvl), nil
}
