// File: snowcfg/yaml_handler.go
package snowcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFileHandler parses YAML renditions of the current config format
// (config.yml next to config.toml). Shape mirrors config.toml: connections
// live under a "connections" mapping.
type YAMLFileHandler struct {
	cache fileCache
}

// NewYAMLFileHandler returns a handler for .yaml/.yml configuration files.
func NewYAMLFileHandler() *YAMLFileHandler {
	return &YAMLFileHandler{}
}

// Name implements SourceHandler.
func (h *YAMLFileHandler) Name() string { return "yaml:config" }

// Discover implements SourceHandler.
func (h *YAMLFileHandler) Discover(key string) (map[string]ConfigValue, error) {
	return nil, ErrNotEnvBacked
}

// DiscoverFromFile implements SourceHandler.
func (h *YAMLFileHandler) DiscoverFromFile(path, key string) (map[string]ConfigValue, error) {
	flat, err := h.cache.get(path, parseYAMLFile)
	if err != nil {
		return nil, err
	}

	out := make(map[string]ConfigValue, len(flat))
	for k, v := range flat {
		out[k] = ConfigValue{
			Key:        k,
			Value:      v,
			SourceName: h.Name(),
			Priority:   PriorityFile,
			RawValue:   stringify(v),
		}
	}
	return filterByKey(out, key), nil
}

func parseYAMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml file %q: %w", path, err)
	}
	parsed := make(map[string]any)
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse yaml file %q: %w", path, err)
	}
	return flattenMap(normalizeYAML(parsed), ""), nil
}

// normalizeYAML rewrites yaml.v3's map[string]any values recursively so the
// flattener sees a uniform shape.
func normalizeYAML(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if sub, ok := v.(map[string]any); ok {
			out[k] = normalizeYAML(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// ConnectionsInFile implements ConnectionSectionLister.
func (h *YAMLFileHandler) ConnectionsInFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml file %q: %w", path, err)
	}
	parsed := make(map[string]any)
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse yaml file %q: %w", path, err)
	}
	sub, ok := parsed["connections"].(map[string]any)
	if !ok {
		return nil, nil
	}
	var names []string
	for name, value := range sub {
		if _, isMapping := value.(map[string]any); isMapping {
			names = append(names, name)
		}
	}
	return names, nil
}

// CanHandleFile implements SourceHandler.
func (h *YAMLFileHandler) CanHandleFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SupportsKey implements SourceHandler.
func (h *YAMLFileHandler) SupportsKey(key string) bool { return key != "" }
