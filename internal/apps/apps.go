package apps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"

	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/format"
)

// Application names for the fixed set of supported applications.
const (
	AppClaude          = "Claude"
	AppVSCode          = "VSCode"
	AppCursor          = "Cursor"
	AppWindsurf        = "Windsurf"
	AppRoocodeVSCode   = "Roocode-VSCode"
	AppRoocodeWindsurf = "Roocode-Windsurf"
)

// App describes one supported application: where its config file lives and
// which schema is used when writing to it. Reading may encounter any schema
// due to manual edits; writing always normalizes to the preferred one.
type App struct {
	Name            string
	Path            string
	PreferredFormat format.Kind
}

// Known returns the application names in their fixed display order.
func Known() []string {
	return []string{
		AppClaude,
		AppVSCode,
		AppCursor,
		AppWindsurf,
		AppRoocodeVSCode,
		AppRoocodeWindsurf,
	}
}

// rooSettingsRel is the Roo Code extension's settings path relative to an
// editor's user data directory.
var rooSettingsRel = filepath.Join(
	"globalStorage", "rooveterinaryinc.roo-cline", "settings", "cline_mcp_settings.json")

// Resolve builds the application table for the given home directory.
// The result is a pure function of GOOS and home; call it once at startup.
// If home is empty, the current user's home directory is used.
func Resolve(home string) ([]App, error) {
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolving home directory")
		}
		home = h
	}

	support := supportDir(home)
	codeUser := filepath.Join(support, "Code", "User")
	windsurfUser := filepath.Join(support, "Windsurf", "User")

	return []App{
		{
			Name:            AppClaude,
			Path:            filepath.Join(support, "Claude", "claude_desktop_config.json"),
			PreferredFormat: format.KindClaude,
		},
		{
			Name:            AppVSCode,
			Path:            filepath.Join(codeUser, "settings.json"),
			PreferredFormat: format.KindVSCode,
		},
		{
			Name:            AppCursor,
			Path:            filepath.Join(home, ".cursor", "mcp.json"),
			PreferredFormat: format.KindStandard,
		},
		{
			Name:            AppWindsurf,
			Path:            filepath.Join(home, ".codeium", "windsurf", "mcp_config.json"),
			PreferredFormat: format.KindStandard,
		},
		{
			Name:            AppRoocodeVSCode,
			Path:            filepath.Join(codeUser, rooSettingsRel),
			PreferredFormat: format.KindStandard,
		},
		{
			Name:            AppRoocodeWindsurf,
			Path:            filepath.Join(windsurfUser, rooSettingsRel),
			PreferredFormat: format.KindStandard,
		},
	}, nil
}

// supportDir returns the per-user application-support directory for the
// current OS.
func supportDir(home string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData
		}
		return filepath.Join(home, "AppData", "Roaming")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return xdgConfig
		}
		return filepath.Join(home, ".config")
	}
}

// Lookup finds an application by name, case-insensitively.
// Returns ErrUnknownApp if the name is not in the table.
func Lookup(table []App, name string) (App, error) {
	for _, a := range table {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return App{}, errors.Wrapf(syncerrors.ErrUnknownApp, "%q (known: %s)",
		name, strings.Join(Known(), ", "))
}

// ApplyOverrides replaces config file paths for the named applications.
// Unknown names in the override map are ignored; the caller validates them.
func ApplyOverrides(table []App, overrides map[string]string) []App {
	if len(overrides) == 0 {
		return table
	}
	out := make([]App, len(table))
	copy(out, table)
	for i, a := range out {
		for name, path := range overrides {
			if strings.EqualFold(a.Name, name) && path != "" {
				out[i].Path = path
			}
		}
	}
	return out
}
