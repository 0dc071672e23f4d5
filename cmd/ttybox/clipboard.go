package main

import (
	"context"
	"io"
	"os"

	"github.com/labi-le/ttybox/internal/stream"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newClipboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clipboard",
		Aliases: []string{"clip", "cb"},
		Short:   "Read, write, clear, and watch the system clipboard",
	}

	cmd.AddCommand(
		newSetCmd(),
		newGetCmd(),
		newClearCmd(),
		newWatchCmd(),
	)
	return cmd
}

// openBackend resolves config into a live backend. The caller closes it.
func openBackend(v *viper.Viper) (clip.Backend, zerolog.Logger, error) {
	logger := initLogger(v)

	backend, err := clipboard.New(logger, v.GetString("backend"), backendOptions(v))
	if err != nil {
		return nil, logger, err
	}

	logger.Debug().
		Str("backend", backend.Name()).
		Stringer("model", backend.Model()).
		Msg("backend ready")
	return backend, logger, nil
}

func closeBackend(b clip.Backend, logger zerolog.Logger) {
	if c, ok := b.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Debug().Err(err).Msg("close backend")
		}
	}
}

func newSetCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "set [content]",
		Short: "Put content on the clipboard",
		Long: `Puts the argument, or stdin when no argument is given, on the clipboard.
An argument of "-" forces reading stdin. An interactive terminal is never
read implicitly; piping is required. Empty input is refused; use clear to
empty the clipboard.

On X11 and Wayland the clipboard holds a reference to the owning process,
not a copy: set stays alive serving paste requests until another program
takes the clipboard over, the process is interrupted, or --idle-timeout
elapses.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return runSet(cmd.Context(), v, arg)
		},
	}

	addCommonFlags(cmd)
	f := cmd.Flags()
	f.String("max-size", "64MiB", "refuse content larger than this (0 = unlimited)")
	f.Duration("idle-timeout", 0, "on ownership clipboards, stop serving after this long without a paste (0 = until superseded)")

	return cmd
}

func runSet(ctx context.Context, v *viper.Viper, arg string) error {
	max, err := maxSize(v)
	if err != nil {
		return err
	}

	src := stream.Source{
		Arg:     arg,
		Stdin:   os.Stdin,
		TTY:     isatty.IsTerminal(os.Stdin.Fd()),
		MaxSize: max,
	}
	p, err := src.Payload()
	if err != nil {
		return err
	}

	backend, logger, err := openBackend(v)
	if err != nil {
		return err
	}
	defer closeBackend(backend, logger)

	logger.Debug().Object("payload", p).Msg("setting clipboard")
	return backend.Set(ctx, p)
}

func newGetCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the clipboard content to stdout",
		Long: `Writes the current clipboard content to stdout as raw bytes.
An empty clipboard writes nothing and exits 0.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGet(cmd.Context(), v)
		},
	}

	addCommonFlags(cmd)
	return cmd
}

func runGet(ctx context.Context, v *viper.Viper) error {
	backend, logger, err := openBackend(v)
	if err != nil {
		return err
	}
	defer closeBackend(backend, logger)

	p, err := backend.Get(ctx)
	if err != nil {
		return err
	}
	return stream.Write(os.Stdout, p)
}

func newClearCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "clear",
		Short:   "Empty the clipboard",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClear(cmd.Context(), v)
		},
	}

	addCommonFlags(cmd)
	return cmd
}

func runClear(ctx context.Context, v *viper.Viper) error {
	backend, logger, err := openBackend(v)
	if err != nil {
		return err
	}
	defer closeBackend(backend, logger)

	return backend.Clear(ctx)
}

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream clipboard changes to stdout",
		Long: `Prints every clipboard change as it happens, one record per line,
until interrupted. Consecutive identical contents are reported once.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), v)
		},
	}

	addCommonFlags(cmd)
	return cmd
}

func runWatch(ctx context.Context, v *viper.Viper) error {
	backend, logger, err := openBackend(v)
	if err != nil {
		return err
	}
	defer closeBackend(backend, logger)

	b := clip.NewBroadcaster()
	updates, cancel := b.Subscribe()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(ctx, backend)
	}()

	for u := range updates {
		logger.Debug().Object("payload", u.Payload).Uint64("hash", u.Hash).Msg("clipboard changed")
		if err := stream.WriteLine(os.Stdout, u.Payload); err != nil {
			cancel()
			<-errCh
			return err
		}
	}
	return <-errCh
}
