// File: snowcfg/helpers_test.go
package snowcfg

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clearEnvPrefix unsets every variable carrying one of the prefixes and
// restores them when the test ends, so ambient shell state cannot leak into
// environment discovery.
func clearEnvPrefix(t *testing.T, prefixes ...string) {
	t.Helper()
	for _, entry := range os.Environ() {
		name, value, _ := strings.Cut(entry, "=")
		for _, prefix := range prefixes {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			n, v := name, value
			os.Unsetenv(n)
			t.Cleanup(func() { os.Setenv(n, v) })
			break
		}
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// stubSource is a fixed-content source for resolver tests. It implements
// ConnectionReporter so file-tier replacement can be exercised without real
// files.
type stubSource struct {
	name     string
	priority SourcePriority
	values   map[string]any
	conns    []string
}

func (s *stubSource) Name() string             { return s.name }
func (s *stubSource) Priority() SourcePriority { return s.priority }

func (s *stubSource) Discover(key string) map[string]ConfigValue {
	out := make(map[string]ConfigValue, len(s.values))
	for k, v := range s.values {
		out[k] = NewConfigValue(k, v, s.name, s.priority)
	}
	return filterByKey(out, key)
}

func (s *stubSource) DefinedConnections() []string { return s.conns }
