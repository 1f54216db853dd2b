package mcp

import (
	"encoding/json"
	"sort"
)

// Server represents a canonical MCP server launch spec that can be
// translated to and from application-specific config formats.
type Server struct {
	// Name is the server's unique identifier within a configuration.
	// It is used as the map key in every application's config file and
	// is never serialized inside the server object itself.
	Name string `json:"-"`

	// Command is the executable to launch. Required.
	Command string `json:"command"`

	// Args are command-line arguments passed to the Command executable.
	Args []string `json:"args,omitempty"`

	// Env contains environment variables passed to the server process.
	Env map[string]string `json:"env,omitempty"`

	// unknownFields stores JSON fields the canonical model does not
	// interpret. They are preserved verbatim on round-trip so a source
	// schema's extra fields survive merge+extract cycles.
	unknownFields map[string]json.RawMessage
}

// MarshalJSON implements json.Marshaler to include unknown fields in output.
// Unknown fields are emitted from their stored raw bytes, so number
// formatting and key order inside them survive a round-trip untouched.
func (s *Server) MarshalJSON() ([]byte, error) {
	result := make(map[string]json.RawMessage, len(s.unknownFields)+3)

	// Copy unknown fields first (so known fields take precedence)
	for k, v := range s.unknownFields {
		result[k] = v
	}

	command, err := json.Marshal(s.Command)
	if err != nil {
		return nil, err
	}
	result["command"] = command

	if len(s.Args) > 0 {
		args, err := json.Marshal(s.Args)
		if err != nil {
			return nil, err
		}
		result["args"] = args
	}
	if len(s.Env) > 0 {
		env, err := json.Marshal(s.Env)
		if err != nil {
			return nil, err
		}
		result["env"] = env
	}

	return json.Marshal(result)
}

// UnmarshalJSON implements json.Unmarshaler to capture unknown fields.
func (s *Server) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["command"]; ok {
		if err := json.Unmarshal(v, &s.Command); err != nil {
			return err
		}
		delete(raw, "command")
	}
	if v, ok := raw["args"]; ok {
		if err := json.Unmarshal(v, &s.Args); err != nil {
			return err
		}
		delete(raw, "args")
	}
	if v, ok := raw["env"]; ok {
		if err := json.Unmarshal(v, &s.Env); err != nil {
			return err
		}
		delete(raw, "env")
	}

	if len(raw) > 0 {
		s.unknownFields = raw
	}

	return nil
}

// Config represents a canonical MCP configuration: the normalized set of
// named server launch specs, independent of any application's file schema.
type Config struct {
	// Servers maps server names to their launch specs.
	Servers map[string]*Server `json:"servers"`
}

// NewConfig creates a new Config with an initialized server map.
func NewConfig() *Config {
	return &Config{
		Servers: make(map[string]*Server),
	}
}

// Names returns all server names in sorted order for deterministic output.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add inserts or replaces a server keyed by its name.
func (c *Config) Add(s *Server) {
	if c.Servers == nil {
		c.Servers = make(map[string]*Server)
	}
	c.Servers[s.Name] = s
}

// Empty returns true if the configuration holds no servers.
func (c *Config) Empty() bool {
	return len(c.Servers) == 0
}
