package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/thoreinstein/mcpsync/internal/mcp"
)

func gitConfig() *mcp.Config {
	cfg := mcp.NewConfig()
	cfg.Add(&mcp.Server{
		Name:    "git",
		Command: "uvx",
		Args:    []string{"mcp-server-git"},
	})
	return cfg
}

func TestMerge_RoundTrip(t *testing.T) {
	cfg := mcp.NewConfig()
	cfg.Add(&mcp.Server{
		Name:    "git",
		Command: "uvx",
		Args:    []string{"mcp-server-git"},
		Env:     map[string]string{"GIT_DIR": "/repo"},
	})
	cfg.Add(&mcp.Server{
		Name:    "fs",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/tmp"},
	})

	docs := map[Kind]string{
		KindClaude:   `{"globalShortcut": "Cmd+Space", "mcpServers": {"old": {"command": "stale"}}}`,
		KindVSCode:   `{"editor.fontSize": 14, "mcp": {"servers": {}}}`,
		KindStandard: `{"mcp": {"servers": {"old": {"command": "stale"}}, "format": "standard"}}`,
	}

	for kind, doc := range docs {
		t.Run(string(kind), func(t *testing.T) {
			merged, err := Merge(kind, []byte(doc), cfg)
			if err != nil {
				t.Fatalf("Merge() error = %v", err)
			}

			got, err := ExtractKind(kind, merged)
			if err != nil {
				t.Fatalf("ExtractKind() error = %v", err)
			}

			if diff := got.Compare(cfg); !diff.InSync() {
				t.Errorf("round-trip lost information: %s", diff)
			}
		})
	}
}

func TestMerge_PreservesUnrelatedKeys(t *testing.T) {
	doc := []byte(`{"editor.fontSize": 14, "workbench.colorTheme": "Monokai", "mcp": {"servers": {}}}`)

	merged, err := Merge(KindVSCode, doc, gitConfig())
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	// Untouched keys keep their exact bytes, including ordering.
	if !strings.Contains(string(merged), `"editor.fontSize": 14`) {
		t.Errorf("editor.fontSize bytes changed: %s", merged)
	}
	if !strings.Contains(string(merged), `"workbench.colorTheme": "Monokai"`) {
		t.Errorf("workbench.colorTheme bytes changed: %s", merged)
	}
	if !json.Valid(merged) {
		t.Errorf("merge output is not valid JSON: %s", merged)
	}
}

func TestMerge_PreservesFormatTag(t *testing.T) {
	doc := []byte(`{"mcp": {"servers": {"old": {"command": "stale"}}, "format": "standard"}}`)

	merged, err := Merge(KindStandard, doc, gitConfig())
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if tag := gjson.GetBytes(merged, "mcp.format").String(); tag != "standard" {
		t.Errorf("mcp.format = %q, want %q", tag, "standard")
	}
	if !gjson.GetBytes(merged, "mcp.servers.git").IsObject() {
		t.Errorf("git server missing after merge: %s", merged)
	}
	if gjson.GetBytes(merged, "mcp.servers.old").Exists() {
		t.Errorf("stale server survived merge: %s", merged)
	}
}

func TestMerge_EmptyDocumentStartsFresh(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		doc  string
		path string
	}{
		{"claude from nothing", KindClaude, "", "mcpServers.git"},
		{"claude from empty object", KindClaude, "{}", "mcpServers.git"},
		{"standard from nothing", KindStandard, "", "mcp.servers.git"},
		{"vscode from invalid", KindVSCode, "not json", "mcp.servers.git"},
		{"legacy writes standard shape", KindLegacy, "", "mcp.servers.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Merge(tt.kind, []byte(tt.doc), gitConfig())
			if err != nil {
				t.Fatalf("Merge() error = %v", err)
			}
			if !gjson.GetBytes(merged, tt.path).IsObject() {
				t.Errorf("expected %s in output, got: %s", tt.path, merged)
			}
			if !json.Valid(merged) {
				t.Errorf("merge output is not valid JSON: %s", merged)
			}
		})
	}
}

// Scenario: a Claude-style source synced into a VSCode settings.json that
// already carries editor settings.
func TestMerge_ClaudeSourceIntoVSCodeSettings(t *testing.T) {
	source := []byte(`{"mcpServers": {"git": {"command": "uvx", "args": ["mcp-server-git"]}}}`)
	settings := []byte(`{"editor.fontSize": 14}`)

	kind, cfg, err := Extract(source)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if kind != KindClaude {
		t.Fatalf("Detect() = %q, want claude", kind)
	}

	merged, err := Merge(KindVSCode, settings, cfg)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if got := gjson.GetBytes(merged, "editor\\.fontSize").Int(); got != 14 {
		t.Errorf("editor.fontSize = %d, want 14", got)
	}
	git := gjson.GetBytes(merged, "mcp.servers.git")
	if git.Get("command").String() != "uvx" {
		t.Errorf("mcp.servers.git.command = %q, want uvx", git.Get("command").String())
	}
	if git.Get("args.0").String() != "mcp-server-git" {
		t.Errorf("mcp.servers.git.args[0] = %q, want mcp-server-git", git.Get("args.0").String())
	}
}

func TestMerge_Deterministic(t *testing.T) {
	cfg := mcp.NewConfig()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		cfg.Add(&mcp.Server{Name: name, Command: "run-" + name})
	}

	first, err := Merge(KindClaude, nil, cfg)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	second, err := Merge(KindClaude, nil, cfg)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("merge output not deterministic:\n%s\nvs\n%s", first, second)
	}
}
