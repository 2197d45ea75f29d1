// File: snowcfg/toml_handler.go
package snowcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// TOMLFileHandler parses current-format TOML configuration files. Two shapes
// exist in the wild: config.toml, where connections live under
// [connections.<name>] sections, and connections.toml, where every top-level
// table is itself a connection name. The mount prefix bridges the second
// shape into the shared key space.
type TOMLFileHandler struct {
	alias string
	// mount, when set, is prepended to every discovered key.
	mount string
	// only restricts the handler to one exact base name; exclude rejects one.
	only    string
	exclude string

	cache fileCache
}

// NewConfigTOMLHandler handles config.toml-style files (dotted sections,
// connections under [connections.<name>]). It declines connections.toml so a
// dedicated handler can claim it.
func NewConfigTOMLHandler() *TOMLFileHandler {
	return &TOMLFileHandler{alias: "config", exclude: "connections.toml"}
}

// NewConnectionsTOMLHandler handles connections.toml, whose top-level tables
// are connection names. All keys are mounted under "connections.".
func NewConnectionsTOMLHandler() *TOMLFileHandler {
	return &TOMLFileHandler{alias: "connections", mount: "connections", only: "connections.toml"}
}

// Name implements SourceHandler.
func (h *TOMLFileHandler) Name() string { return "toml:" + h.alias }

// Discover implements SourceHandler; TOML handlers only read files.
func (h *TOMLFileHandler) Discover(key string) (map[string]ConfigValue, error) {
	return nil, ErrNotEnvBacked
}

// DiscoverFromFile implements SourceHandler.
func (h *TOMLFileHandler) DiscoverFromFile(path, key string) (map[string]ConfigValue, error) {
	flat, err := h.cache.get(path, parseTOMLFile)
	if err != nil {
		return nil, err
	}

	out := make(map[string]ConfigValue, len(flat))
	for k, v := range flat {
		configKey := k
		if h.mount != "" {
			configKey = h.mount + "." + k
		}
		out[configKey] = ConfigValue{
			Key:        configKey,
			Value:      v,
			SourceName: h.Name(),
			Priority:   PriorityFile,
			RawValue:   stringify(v),
		}
	}
	return filterByKey(out, key), nil
}

func parseTOMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read toml file %q: %w", path, err)
	}
	parsed := make(map[string]any)
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse toml file %q: %w", path, err)
	}
	return flattenMap(parsed, ""), nil
}

// ConnectionsInFile implements ConnectionSectionLister. Empty connection
// tables are reported too; an empty block still claims the connection at the
// file tier.
func (h *TOMLFileHandler) ConnectionsInFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read toml file %q: %w", path, err)
	}
	parsed := make(map[string]any)
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse toml file %q: %w", path, err)
	}

	tables := parsed
	if h.mount == "" {
		// config.toml shape: connections live under a [connections] table.
		sub, ok := parsed["connections"].(map[string]any)
		if !ok {
			return nil, nil
		}
		tables = sub
	}

	var names []string
	for name, value := range tables {
		if _, isTable := value.(map[string]any); isTable {
			names = append(names, name)
		}
	}
	return names, nil
}

// CanHandleFile implements SourceHandler.
func (h *TOMLFileHandler) CanHandleFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".toml" && ext != ".tml" {
		return false
	}
	base := filepath.Base(path)
	if h.only != "" && base != h.only {
		return false
	}
	if h.exclude != "" && base == h.exclude {
		return false
	}
	return true
}

// SupportsKey implements SourceHandler.
func (h *TOMLFileHandler) SupportsKey(key string) bool {
	if key == "" {
		return false
	}
	if h.mount != "" {
		return strings.HasPrefix(key, h.mount+".")
	}
	return true
}
