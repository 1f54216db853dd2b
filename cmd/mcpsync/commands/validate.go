package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/sync"
)

var validateSource string

func init() {
	validateCmd.Flags().StringVarP(&validateSource, "source", "s", "claude",
		"reference: an application name or a path to a config file")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether all applications agree with a reference config",
	Long: `Compare every application's MCP server definitions against the
reference and report drift per application. Nothing is written.

The exit code is 0 when everything agrees and 1 when any application
is out of sync, so validate works in scripts and CI.`,
	Example: `  # Claude Desktop as the reference
  mcpsync validate --source claude

  # Against an exported file
  mcpsync validate --source ./mcp-servers.json

See Also: mcpsync sync, mcpsync status`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	table, err := appTable()
	if err != nil {
		return syncerrors.NewSystemError(err, "could not resolve application paths")
	}

	syncer := sync.New(table, sync.WithLogger(logging.FromContext(cmd.Context())))

	results, err := syncer.ValidateAll(validateSource)
	if err != nil {
		return syncerrors.NewUserError(err, "pass an application name or a readable JSON file with --source")
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	out := cmd.OutOrStdout()

	for _, r := range results {
		if r.InSync {
			green.Fprintf(out, "  ✓ %s", r.App)
			fmt.Fprintf(out, " (%d servers)\n", len(r.ServerNames))
			continue
		}
		red.Fprintf(out, "  ✗ %s", r.App)
		fmt.Fprintf(out, " %s\n", r.Reason)
	}

	if !sync.AllInSync(results) {
		return syncerrors.NewExitError(fmt.Errorf("applications are out of sync"), syncerrors.ExitUser)
	}
	fmt.Fprintln(out, "All applications in sync.")
	return nil
}
