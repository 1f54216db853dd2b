package mcp

import (
	"encoding/json"
	"testing"
)

func TestServer_Equal(t *testing.T) {
	base := &Server{
		Name:    "git",
		Command: "uvx",
		Args:    []string{"mcp-server-git"},
		Env:     map[string]string{"GIT_DIR": "/repo"},
	}

	tests := []struct {
		name  string
		other *Server
		want  bool
	}{
		{
			name: "identical spec",
			other: &Server{
				Name:    "git",
				Command: "uvx",
				Args:    []string{"mcp-server-git"},
				Env:     map[string]string{"GIT_DIR": "/repo"},
			},
			want: true,
		},
		{
			name: "different command",
			other: &Server{
				Name:    "git",
				Command: "npx",
				Args:    []string{"mcp-server-git"},
				Env:     map[string]string{"GIT_DIR": "/repo"},
			},
			want: false,
		},
		{
			name: "args order matters",
			other: &Server{
				Name:    "git",
				Command: "uvx",
				Args:    []string{"--verbose", "mcp-server-git"},
				Env:     map[string]string{"GIT_DIR": "/repo"},
			},
			want: false,
		},
		{
			name: "env value differs",
			other: &Server{
				Name:    "git",
				Command: "uvx",
				Args:    []string{"mcp-server-git"},
				Env:     map[string]string{"GIT_DIR": "/other"},
			},
			want: false,
		},
		{
			name: "missing env key",
			other: &Server{
				Name:    "git",
				Command: "uvx",
				Args:    []string{"mcp-server-git"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServer_EqualIgnoresPassthrough(t *testing.T) {
	var a, b Server
	if err := json.Unmarshal([]byte(`{"command": "uvx", "format": "standard"}`), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"command": "uvx", "format": "vscode"}`), &b); err != nil {
		t.Fatal(err)
	}

	if !a.Equal(&b) {
		t.Error("servers differing only in format metadata should be equal")
	}
}

func TestConfig_Compare(t *testing.T) {
	reference := NewConfig()
	reference.Add(&Server{Name: "git", Command: "uvx", Args: []string{"mcp-server-git"}})
	reference.Add(&Server{Name: "fs", Command: "npx", Args: []string{"server-filesystem"}})

	tests := []struct {
		name        string
		build       func() *Config
		wantInSync  bool
		wantMissing []string
		wantExtra   []string
		wantChanged []string
	}{
		{
			name: "identical",
			build: func() *Config {
				c := NewConfig()
				c.Add(&Server{Name: "git", Command: "uvx", Args: []string{"mcp-server-git"}})
				c.Add(&Server{Name: "fs", Command: "npx", Args: []string{"server-filesystem"}})
				return c
			},
			wantInSync: true,
		},
		{
			name: "missing server",
			build: func() *Config {
				c := NewConfig()
				c.Add(&Server{Name: "git", Command: "uvx", Args: []string{"mcp-server-git"}})
				return c
			},
			wantMissing: []string{"fs"},
		},
		{
			name: "extra server",
			build: func() *Config {
				c := NewConfig()
				c.Add(&Server{Name: "git", Command: "uvx", Args: []string{"mcp-server-git"}})
				c.Add(&Server{Name: "fs", Command: "npx", Args: []string{"server-filesystem"}})
				c.Add(&Server{Name: "time", Command: "uvx", Args: []string{"mcp-server-time"}})
				return c
			},
			wantExtra: []string{"time"},
		},
		{
			name: "changed server",
			build: func() *Config {
				c := NewConfig()
				c.Add(&Server{Name: "git", Command: "docker", Args: []string{"run", "git"}})
				c.Add(&Server{Name: "fs", Command: "npx", Args: []string{"server-filesystem"}})
				return c
			},
			wantChanged: []string{"git"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := tt.build().Compare(reference)
			if diff.InSync() != tt.wantInSync {
				t.Errorf("InSync() = %v, want %v (diff: %s)", diff.InSync(), tt.wantInSync, diff)
			}
			assertNames(t, "Missing", diff.Missing, tt.wantMissing)
			assertNames(t, "Extra", diff.Extra, tt.wantExtra)
			assertNames(t, "Changed", diff.Changed, tt.wantChanged)
		})
	}
}

func assertNames(t *testing.T, field string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", field, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", field, got, want)
			return
		}
	}
}
