// TerraCore is a deterministic, data-driven engine for project-card games
// in the style of Terraforming Mars.
// Usage: terracore [flags] <catalog_directory>
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/terracore/cli"
	"github.com/nathoo/terracore/config"
	"github.com/nathoo/terracore/engine"
	"github.com/nathoo/terracore/loader"
	"github.com/nathoo/terracore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds the root command's flags.
type options struct {
	configPath string
	plain      bool
	script     string
	trace      bool
	players    []string
	seed       int64
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "terracore <catalog_directory>",
		Short: "Play a Lua card catalog in the terminal",
		Long: `Loads the Lua card catalog in the given directory, deals the
configured seats and starts a hot-seat game in the terminal UI, or in a
plain line-based console with --plain or --script.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	f := root.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML rules file (defaults apply when omitted)")
	f.BoolVar(&opts.plain, "plain", false, "use the line-based console instead of the TUI")
	f.StringVar(&opts.script, "script", "", "play commands from a file (implies --plain)")
	f.BoolVar(&opts.trace, "trace", false, "print emitted events after each command")
	f.StringSliceVar(&opts.players, "players", nil, "seat names, e.g. --players red,blue")
	f.Int64Var(&opts.seed, "seed", 0, "shuffle seed (0 keeps the config value, or picks one)")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(newValidateCmd(), newVersionCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog_directory>",
		Short: "Load and check a card catalog without playing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger("warn", "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			defs, err := loader.Load(args[0], log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cards OK\n", defs.Game.Title, len(defs.Order))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "terracore %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Build date: %s\n", date)
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig applies the config file and flag overrides on top of the
// defaults.
func loadConfig(opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}
	if len(opts.players) > 0 {
		cfg.Players = opts.players
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, catalogDir string, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	plain := opts.plain || opts.script != "" || !isTerminal()

	// The TUI owns the screen, so it only logs to a file.
	logOut := cmd.ErrOrStderr()
	if !plain && opts.logFile == "" {
		logOut = io.Discard
	}
	log, err := buildLogger(cfg.LogLevel, opts.logFile, logOut)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// Load and compile Lua catalog content.
	defs, err := loader.Load(catalogDir, log)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	eng, err := engine.New(defs, cfg, log)
	if err != nil {
		return err
	}
	log.Info("game started",
		zap.Strings("players", cfg.Players),
		zap.Int64("seed", cfg.Seed))

	// Script mode: open file, force plain, echo commands.
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.Out = cmd.OutOrStdout()
		c.EchoInput = true
		c.Trace = opts.trace
		c.Run()
		return nil
	}

	if plain {
		c := cli.New(eng)
		c.Out = cmd.OutOrStdout()
		c.Trace = opts.trace
		c.Run()
		return nil
	}

	return tui.Run(eng)
}

// buildLogger creates a console logger at the named level. A non-empty path
// sends output to that file instead of w.
func buildLogger(level, path string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	sink := zapcore.AddSync(w)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		sink = zapcore.AddSync(f)
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(sink), lvl)
	return zap.New(core), nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
