// Package commands implements the CLI commands for mcpsync.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/apps"
	"github.com/thoreinstein/mcpsync/internal/config"
	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
var version = "0.1.0"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg is the loaded tool configuration, populated in PersistentPreRunE.
var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to mcpsync config file (default: $XDG_CONFIG_HOME/mcpsync/config.yaml)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mcpsync version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "mcpsync",
	Short: "Keep MCP server configurations in sync across AI applications",
	Long: `mcpsync keeps Model Context Protocol server definitions consistent
across Claude Desktop, VSCode, Cursor, Windsurf, and the Roo Code
extension.

Each application stores its MCP servers in its own config file with its
own schema. mcpsync reads any of them into one canonical form and writes
it back out in each application's native schema, preserving every
unrelated setting in the file byte for byte.`,
	Example: `  # Push Claude Desktop's servers to every other app
  mcpsync sync --source claude

  # Check whether all apps agree
  mcpsync validate --source claude

  # Watch all config files and propagate changes automatically
  mcpsync daemon

See Also: mcpsync status, mcpsync config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		loaded, err := config.Load(configFile)
		if err != nil {
			return syncerrors.NewUserError(err, "check the config file syntax or remove it to use defaults")
		}
		cfg = loaded
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return syncerrors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity > 0:
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return syncerrors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// appTable resolves the application table with config overrides applied.
func appTable() ([]apps.App, error) {
	table, err := apps.Resolve("")
	if err != nil {
		return nil, err
	}
	return apps.ApplyOverrides(table, cfg.PathOverrides()), nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return syncerrors.ExitSuccess
	}

	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, "%v\n", err)

	var exitErr *syncerrors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Suggestion)
		}
		return exitErr.Code
	}
	return syncerrors.ExitUser
}
