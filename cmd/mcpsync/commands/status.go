package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show each application's config file, schema and servers",
	Long: `List the known applications with the config file path mcpsync will
use, the schema detected in the file, and the MCP servers it defines.
Nothing is written.`,
	Example: `  mcpsync status

See Also: mcpsync validate`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	table, err := appTable()
	if err != nil {
		return syncerrors.NewSystemError(err, "could not resolve application paths")
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	out := cmd.OutOrStdout()

	for _, a := range table {
		bold.Fprintf(out, "%s\n", a.Name)
		fmt.Fprintf(out, "  path:   %s\n", a.Path)

		doc, err := fileutil.ReadFileWithLimit(a.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				dim.Fprintf(out, "  file:   not present\n")
			} else {
				fmt.Fprintf(out, "  file:   unreadable (%v)\n", err)
			}
			continue
		}

		kind, cfg, err := format.Extract(doc)
		if err != nil {
			fmt.Fprintf(out, "  format: %s, but servers are malformed (%v)\n", kind, err)
			continue
		}

		fmt.Fprintf(out, "  format: %s\n", kind)
		if cfg.Empty() {
			dim.Fprintf(out, "  servers: none\n")
		} else {
			fmt.Fprintf(out, "  servers: %s\n", strings.Join(cfg.Names(), ", "))
		}
	}
	return nil
}
