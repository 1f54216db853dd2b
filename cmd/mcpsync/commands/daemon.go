package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/apps"
	"github.com/thoreinstein/mcpsync/internal/daemon"
	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
)

var (
	daemonWatch    []string
	daemonOnce     bool
	daemonTimeout  time.Duration
	daemonDebounce time.Duration
	daemonForce    bool
)

func init() {
	daemonCmd.Flags().StringSliceVar(&daemonWatch, "watch", nil,
		"watch only these applications (default: all)")
	daemonCmd.Flags().BoolVar(&daemonOnce, "watch-once", false,
		"exit after handling the first change")
	daemonCmd.Flags().DurationVar(&daemonTimeout, "timeout", 0,
		"stop after this duration (0 = run until interrupted)")
	daemonCmd.Flags().DurationVar(&daemonDebounce, "debounce", 0,
		"quiet period after a change before syncing (default from config)")
	daemonCmd.Flags().BoolVarP(&daemonForce, "force", "f", false,
		"apply destructive changes without skipping")
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch all config files and propagate changes automatically",
	Long: `Watch every application's MCP config file. When one changes and
settles, it becomes the source of truth and its servers are written to
all other applications. Whichever file changed last wins.

Changes that would remove servers from a target are skipped unless
--force is given, since there is nobody at the terminal to confirm.
Skips are logged so nothing disappears silently.`,
	Example: `  # Run until Ctrl-C
  mcpsync daemon

  # Handle one change and exit (useful in scripts)
  mcpsync daemon --watch-once --timeout 5m

  # Editors that save aggressively may want a longer quiet period
  mcpsync daemon --debounce 5s

See Also: mcpsync sync, mcpsync validate`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	table, err := appTable()
	if err != nil {
		return syncerrors.NewSystemError(err, "could not resolve application paths")
	}

	if len(daemonWatch) > 0 {
		var watched []apps.App
		for _, name := range daemonWatch {
			a, err := apps.Lookup(table, name)
			if err != nil {
				return syncerrors.NewUserError(err, "run 'mcpsync status' to see the known applications")
			}
			watched = append(watched, a)
		}
		table = watched
	}

	debounce := cfg.Debounce
	if daemonDebounce > 0 {
		debounce = daemonDebounce
	}

	d := daemon.New(table,
		daemon.WithLogger(logging.FromContext(cmd.Context())),
		daemon.WithForce(daemonForce || cfg.Force),
		daemon.WithOnce(daemonOnce),
		daemon.WithDebounce(debounce),
		daemon.WithSuppressWindow(cfg.SuppressWindow),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if daemonTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, daemonTimeout)
		defer cancel()
	}

	if err := d.Run(ctx); err != nil {
		return syncerrors.NewSystemError(err, "could not start watching config files")
	}
	return nil
}
