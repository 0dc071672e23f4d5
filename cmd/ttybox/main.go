// ttybox: one clipboard CLI across X11, Wayland, terminals, and the native
// pasteboards.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/labi-le/ttybox/internal/stream"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

// Exit codes, one per failure class so scripts can branch on them.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInvalid     = 3
	exitUnavailable = 4
	exitNoBackend   = 5
	exitLost        = 6
	exitTimeout     = 7
	exitUnsupported = 8
	exitTooLarge    = 9
)

var errUsage = errors.New("usage error")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ttybox: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ttybox",
		Short: "Clipboard access from any terminal",
		Long: `ttybox reads and writes the system clipboard from the command line,
picking the right mechanism for the session it runs in: wlr-data-control on
Wayland, X selections on X11, OSC 52 escape sequences over a bare terminal
(SSH included), helper tools like xclip as a fallback, and the native
pasteboard on macOS and Windows.

On ownership-model clipboards (X11, Wayland) "set" keeps the process alive
serving paste requests until another program copies something; pair it with
--idle-timeout or push it to the background.

All flags can be set via TTYBOX_<FLAG> env vars or config-file keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	root.AddCommand(
		newClipboardCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("ttybox %s\n", Version)
		},
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, stream.ErrNoInput):
		return exitUsage
	case errors.Is(err, clip.ErrPayloadTooLarge):
		return exitTooLarge
	case errors.Is(err, clip.ErrInvalidPayload):
		return exitInvalid
	case errors.Is(err, clip.ErrNoBackend):
		return exitNoBackend
	case errors.Is(err, clip.ErrBackendUnavailable):
		return exitUnavailable
	case errors.Is(err, clip.ErrBackendLost):
		return exitLost
	case errors.Is(err, clip.ErrTimeout):
		return exitTimeout
	case errors.Is(err, clip.ErrUnsupported):
		return exitUnsupported
	default:
		return exitFailure
	}
}
