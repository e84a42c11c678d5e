package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version, readConfigFile)

	root.Use = "gob64 [flags] command [flags]"
	root.Short = "Chunked base64 file codec"
	root.Long = `A file codec that turns binary files into length-prefixed base64 frames and back.
Chunks are processed in parallel and may be salted, compressed and wrapped with an RSA public key.`

	root.PersistentFlags().Bool("show", false, "Show the configuration and exit")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress and non-error output")
	root.PersistentFlags().Bool("stats", false, "Print statistics after the run")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("config", "", "Path to a YAML config file with flag defaults")

	root.AddCommand(
		NewEncodeCommand(),
		NewDecodeCommand(),
		NewGenkeysCommand(),
		newVersionCommand(version),
	)

	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gob64 version %s\n", version)
		},
	}
}
