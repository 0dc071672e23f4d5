package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and TTYBOX_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → TTYBOX_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("ttybox")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/ttybox/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/ttybox", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("TTYBOX")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addCommonFlags adds the flags every clipboard subcommand shares.
func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("backend", "", "force a backend (wlr|x11|osc52|xclip|xsel|wl-clipboard|null) instead of detecting one")
	f.Bool("primary", false, "use the primary selection instead of the clipboard (X11/Wayland/OSC 52)")
	f.Duration("timeout", clip.DefaultOptions.GetTimeout, "give up waiting for the clipboard owner after this long")
	f.Bool("verbose", false, "verbose logs")
	f.String("log-format", "console", "log format: console|json")
	f.String("config", "", "path to config file (overrides auto-discovery)")
}

// backendOptions translates resolved config into backend options.
func backendOptions(v *viper.Viper) clip.Options {
	opts := clip.DefaultOptions
	if v.GetBool("primary") {
		opts.Selection = clip.SelectionPrimary
	}
	if d := v.GetDuration("timeout"); d > 0 {
		opts.GetTimeout = d
	}
	opts.IdleTimeout = v.GetDuration("idle-timeout")
	return opts
}

// maxSize parses the human-readable size cap ("10MiB", "512kb", ...).
func maxSize(v *viper.Viper) (uint64, error) {
	raw := v.GetString("max-size")
	if raw == "" || raw == "0" {
		return 0, nil
	}
	size, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid max-size %q: %w", errUsage, raw, err)
	}
	return size, nil
}

func initLogger(v *viper.Viper) zerolog.Logger {
	level := zerolog.WarnLevel
	if v.GetBool("verbose") {
		level = zerolog.TraceLevel
	}

	if v.GetString("log-format") == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
