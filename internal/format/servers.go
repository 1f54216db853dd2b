package format

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// usableDoc reports whether doc is a JSON object worth merging into.
// Anything else (missing file, empty bytes, non-object root) starts fresh.
func usableDoc(doc []byte) bool {
	if len(bytes.TrimSpace(doc)) == 0 {
		return false
	}
	if !gjson.ValidBytes(doc) {
		return false
	}
	return gjson.ParseBytes(doc).IsObject()
}

// decodeServers converts a schema's server collection into canonical form.
// raw must be the JSON of the collection object (map of name to spec).
func decodeServers(raw gjson.Result) (*mcp.Config, error) {
	cfg := mcp.NewConfig()
	if !raw.Exists() {
		return cfg, nil
	}
	if !raw.IsObject() {
		return nil, errors.Wrap(syncerrors.ErrMalformedConfig, "server collection is not an object")
	}

	var servers map[string]*mcp.Server
	if err := json.Unmarshal([]byte(raw.Raw), &servers); err != nil {
		return nil, errors.Wrapf(syncerrors.ErrMalformedConfig, "decoding server entries: %v", err)
	}

	for name, server := range servers {
		if server == nil {
			return nil, errors.Wrapf(syncerrors.ErrMalformedConfig, "server %q is null", name)
		}
		if server.Command == "" {
			return nil, errors.Wrapf(syncerrors.ErrMalformedConfig, "server %q has no command", name)
		}
		server.Name = name
		cfg.Add(server)
	}

	return cfg, nil
}

// encodeServers serializes the canonical server map. encoding/json emits map
// keys in sorted order, which keeps output deterministic across runs.
func encodeServers(cfg *mcp.Config) ([]byte, error) {
	servers := cfg.Servers
	if servers == nil {
		servers = map[string]*mcp.Server{}
	}
	data, err := json.Marshal(servers)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling server collection")
	}
	return data, nil
}

// setSubtree replaces the server collection at path inside doc, leaving
// every other byte of the document untouched. A document that is missing,
// empty or not a JSON object starts from an indented fresh skeleton built
// by the caller via fresh.
func setSubtree(doc []byte, path string, cfg *mcp.Config, fresh func(*mcp.Config) ([]byte, error)) ([]byte, error) {
	if !usableDoc(doc) {
		return fresh(cfg)
	}

	servers, err := encodeServers(cfg)
	if err != nil {
		return nil, err
	}

	out, err := sjson.SetRawBytes(doc, path, servers)
	if err != nil {
		return nil, errors.Wrapf(err, "merging server collection at %q", path)
	}
	return out, nil
}

// freshDoc builds an indented new-file document from a skeleton value.
func freshDoc(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "building fresh document")
	}
	return append(data, '\n'), nil
}
