package mcp

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestServer_RoundTripUnknownFields(t *testing.T) {
	input := `{
		"command": "uvx",
		"args": ["mcp-server-git"],
		"env": {"GIT_DIR": "/repo"},
		"timeout": 30,
		"disabled": false
	}`

	var server Server
	if err := json.Unmarshal([]byte(input), &server); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if server.Command != "uvx" {
		t.Errorf("Command = %q, want %q", server.Command, "uvx")
	}
	if len(server.Args) != 1 || server.Args[0] != "mcp-server-git" {
		t.Errorf("Args = %v, want [mcp-server-git]", server.Args)
	}
	if server.Env["GIT_DIR"] != "/repo" {
		t.Errorf("Env[GIT_DIR] = %q, want %q", server.Env["GIT_DIR"], "/repo")
	}

	out, err := json.Marshal(&server)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("re-parsing output: %v", err)
	}

	if got["timeout"] != float64(30) {
		t.Errorf("unknown field timeout = %v, want 30", got["timeout"])
	}
	if got["disabled"] != false {
		t.Errorf("unknown field disabled = %v, want false", got["disabled"])
	}
}

func TestServer_MarshalKeepsUnknownFieldBytes(t *testing.T) {
	// Decoding into map[string]any would turn 1.50 into 1.5 and reorder
	// the nested keys; the stored raw bytes must come back untouched.
	input := `{"command": "uvx", "timeout": 1.50, "meta": {"z": 1, "a": 2}}`

	var server Server
	if err := json.Unmarshal([]byte(input), &server); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	out, err := json.Marshal(&server)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if !bytes.Contains(out, []byte(`"timeout":1.50`)) {
		t.Errorf("number formatting not preserved: %s", out)
	}
	if !bytes.Contains(out, []byte(`"meta":{"z": 1, "a": 2}`)) {
		t.Errorf("nested key order not preserved: %s", out)
	}
}

func TestServer_MarshalOmitsEmpty(t *testing.T) {
	server := &Server{Name: "minimal", Command: "echo"}

	out, err := json.Marshal(server)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("re-parsing output: %v", err)
	}

	if _, ok := got["args"]; ok {
		t.Error("empty args should be omitted")
	}
	if _, ok := got["env"]; ok {
		t.Error("empty env should be omitted")
	}
	if got["command"] != "echo" {
		t.Errorf("command = %v, want echo", got["command"])
	}
}

func TestConfig_Names(t *testing.T) {
	cfg := NewConfig()
	cfg.Add(&Server{Name: "zeta", Command: "z"})
	cfg.Add(&Server{Name: "alpha", Command: "a"})
	cfg.Add(&Server{Name: "mid", Command: "m"})

	names := cfg.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(want))
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], n)
		}
	}
}
