// File: snowcfg/connection.go
package snowcfg

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Connection is a named Snowflake connection record. It is re-derived fully
// on each resolution pass; nothing here persists between invocations.
type Connection struct {
	Account           string `cfg:"account"`
	User              string `cfg:"user"`
	Password          string `cfg:"password"`
	Host              string `cfg:"host"`
	Port              int    `cfg:"port"`
	Region            string `cfg:"region"`
	Warehouse         string `cfg:"warehouse"`
	Database          string `cfg:"database"`
	Schema            string `cfg:"schema"`
	Role              string `cfg:"role"`
	Authenticator     string `cfg:"authenticator"`
	PrivateKeyFile    string `cfg:"private_key_file"`
	PrivateKeyFilePwd string `cfg:"private_key_file_pwd"`
	PrivateKeyPath    string `cfg:"private_key_path"`
	Token             string `cfg:"token"`
	TokenFilePath     string `cfg:"token_file_path"`
}

// ResolveConnection resolves the named connection across all sources,
// honoring file-tier replacement and environment/CLI overlay, then decodes
// the field set into a typed record.
//
// A connection every contributing source defined with zero fields resolves to
// ErrConnectionNotConfigured; the resolver itself treats an empty block as a
// valid (empty) mapping, and this is the consuming-layer error the empty
// mapping becomes.
func (r *ConfigurationResolver) ResolveConnection(name string) (Connection, error) {
	merged := r.Resolve()

	fields := make(map[string]any)
	for key, value := range merged {
		connName, field, ok := splitConnectionKey(key)
		if !ok || connName != name {
			continue
		}
		fields[field] = value
	}

	if len(fields) == 0 {
		return Connection{}, fmt.Errorf("connection %q: %w", name, ErrConnectionNotConfigured)
	}

	var conn Connection
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &conn,
		TagName:          "cfg",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Connection{}, fmt.Errorf("build connection decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return Connection{}, fmt.Errorf("decode connection %q: %w", name, err)
	}
	return conn, nil
}

// ConnectionNames lists every connection name any source defines, including
// connections whose winning block is empty, in lexical order.
func (r *ConfigurationResolver) ConnectionNames() []string {
	seen := make(map[string]bool)

	for key := range r.Resolve() {
		if name, _, ok := splitConnectionKey(key); ok {
			seen[name] = true
		}
	}
	for _, src := range r.sources {
		if reporter, ok := src.(ConnectionReporter); ok {
			for _, name := range reporter.DefinedConnections() {
				seen[name] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
