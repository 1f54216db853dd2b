package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/mcpsync/internal/apps"
)

// writeTestConfig points every application's config file into dir so the
// commands never touch the real home directory.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("apps:\n")
	for _, name := range apps.Known() {
		fmt.Fprintf(&b, "  %s:\n    path: %s\n",
			name, filepath.Join(dir, name, "config.json"))
	}

	path := filepath.Join(dir, "mcpsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

// runCommand executes the root command with the given args and returns the
// captured stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Package-level flag state leaks between runs; reset what the tests use.
	syncSource = "claude"
	syncTargets = nil
	syncForce = false
	syncReportFile = ""
	validateSource = "claude"
	quiet = false
	verbosity = 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSyncThenValidate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	claudePath := filepath.Join(dir, apps.AppClaude, "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(claudePath), 0o755))
	require.NoError(t, os.WriteFile(claudePath,
		[]byte(`{"mcpServers":{"fs":{"command":"npx","args":["-y","fs"]}}}`), 0o644))

	// Before syncing, validate reports drift.
	_, err := runCommand(t, "validate", "--config", cfgPath, "--source", "claude")
	require.Error(t, err, "drifted table should fail validation")

	out, err := runCommand(t, "sync", "--config", cfgPath, "--source", "claude")
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, out, "synced")

	cursorDoc, err := os.ReadFile(filepath.Join(dir, apps.AppCursor, "config.json"))
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(cursorDoc, "mcp.servers.fs").Exists())

	out, err = runCommand(t, "validate", "--config", cfgPath, "--source", "claude")
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, out, "All applications in sync.")
}

func TestSyncReportFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	claudePath := filepath.Join(dir, apps.AppClaude, "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(claudePath), 0o755))
	require.NoError(t, os.WriteFile(claudePath,
		[]byte(`{"mcpServers":{"fs":{"command":"npx"}}}`), 0o644))

	reportPath := filepath.Join(dir, "reports", "sync.json")
	out, err := runCommand(t, "sync", "--config", cfgPath, "--source", "claude",
		"--report-file", reportPath)
	require.NoError(t, err, "output: %s", out)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, apps.AppClaude, gjson.GetBytes(data, "source").String())
	assert.Equal(t, "synced", gjson.GetBytes(data, "results.0.outcome").String())
	assert.Equal(t, int64(len(apps.Known())-1),
		gjson.GetBytes(data, "results.#").Int())
}

func TestSyncUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	_, err := runCommand(t, "sync", "--config", cfgPath, "--source", "claude", "--target", "Zed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Zed")
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out, err := runCommand(t, "status", "--config", cfgPath)
	require.NoError(t, err)
	for _, name := range apps.Known() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "not present")
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out, err := runCommand(t, "config", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "debounce")
}
