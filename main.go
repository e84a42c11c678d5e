// Command gob64 converts binary files into length-prefixed base64 frames and back.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/gob64/internal/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "unknown - unofficial"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := commands.NewRootCommand(version).ExecuteContext(ctx)

	stop()

	if err != nil && !errors.Is(err, cobraext.ErrExitGracefully) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
