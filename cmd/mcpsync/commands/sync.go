package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/sync"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

var (
	syncSource     string
	syncTargets    []string
	syncForce      bool
	syncReportFile string
)

func init() {
	syncCmd.Flags().StringVarP(&syncSource, "source", "s", "claude",
		"source of truth: an application name or a path to a config file")
	syncCmd.Flags().StringSliceVarP(&syncTargets, "target", "t", nil,
		"restrict the sync to these applications (default: all except the source)")
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false,
		"apply destructive changes without confirmation")
	syncCmd.Flags().StringVar(&syncReportFile, "report-file", "",
		"also write the sync report as JSON to this file")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Propagate MCP servers from one source to all other applications",
	Long: `Read the MCP server definitions from the source and write them to
every other application's config file, each in its own native schema.

When the write would remove servers that a target currently has, mcpsync
shows exactly what would be removed and asks for confirmation. Use
--force to skip the prompt.`,
	Example: `  # Claude Desktop is the source of truth
  mcpsync sync --source claude

  # Sync only into Cursor and Windsurf
  mcpsync sync --source claude --target cursor --target windsurf

  # From an exported file, removing anything not listed in it
  mcpsync sync --source ./mcp-servers.json --force

See Also: mcpsync validate, mcpsync status`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	table, err := appTable()
	if err != nil {
		return syncerrors.NewSystemError(err, "could not resolve application paths")
	}

	syncer := sync.New(table, sync.WithLogger(logging.FromContext(cmd.Context())))

	canonical, sourceName, err := syncer.LoadCanonical(syncSource)
	if err != nil {
		return syncerrors.NewUserError(err, "pass an application name or a readable JSON file with --source")
	}

	targets, err := syncer.Targets(sourceName, syncTargets)
	if err != nil {
		return syncerrors.NewUserError(err, "run 'mcpsync status' to see the known applications")
	}

	report := syncer.ApplySync(canonical, targets, syncForce, confirmOnTerminal(cmd))
	report.Source = sourceName
	if !quiet {
		report.Print(cmd.OutOrStdout())
	}

	if syncReportFile != "" {
		if err := os.MkdirAll(filepath.Dir(syncReportFile), 0o755); err != nil {
			return syncerrors.NewSystemError(err, "could not create the report directory")
		}
		if err := fileutil.AtomicWriteJSON(syncReportFile, report); err != nil {
			return syncerrors.NewSystemError(err, "could not write the report file")
		}
	}

	if !report.OK() {
		return syncerrors.NewExitError(
			fmt.Errorf("%d of %d targets not synced", report.Skipped()+report.Failed(), len(report.Results)),
			syncerrors.ExitUser)
	}
	return nil
}

// confirmOnTerminal prompts on stdin for destructive operations. When stdin
// is not interactive the prompt would hang, so the operation is declined;
// --force is the non-interactive path.
func confirmOnTerminal(cmd *cobra.Command) sync.ConfirmFunc {
	if !logging.IsTTY(os.Stdin) {
		return nil
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return func(op *sync.DestructiveOp) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s would remove these servers:\n", op.AppName)
		for _, name := range op.ServersToRemove {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Proceed? [y/N]: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
