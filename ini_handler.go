// File: snowcfg/ini_handler.go
package snowcfg

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultConnectionName is the connection the bare [connections] section of a
// legacy snowsql file describes.
const DefaultConnectionName = "default"

// variablesSection is the snowsql section holding -D substitution defaults.
const variablesSection = "variables"

// SnowsqlFileHandler parses the legacy snowsql configuration file (typically
// ~/.snowsql/config or a .cnf file). Section handling:
//
//	[connections]         the default connection
//	[connections.<name>]  a named connection
//	[variables]           substitution variables, read separately
//	[options]             flat settings, surfaced as top-level keys
//
// Legacy key names are translated through the migration table; the raw value
// keeps the original "key=value" text so history can show the rename.
type SnowsqlFileHandler struct {
	cache fileCache
}

// NewSnowsqlFileHandler returns the legacy snowsql file handler.
func NewSnowsqlFileHandler() *SnowsqlFileHandler {
	return &SnowsqlFileHandler{}
}

// Name implements SourceHandler.
func (h *SnowsqlFileHandler) Name() string { return "snowsql_config" }

// Discover implements SourceHandler; this handler only reads files.
func (h *SnowsqlFileHandler) Discover(key string) (map[string]ConfigValue, error) {
	return nil, ErrNotEnvBacked
}

// DiscoverFromFile implements SourceHandler.
func (h *SnowsqlFileHandler) DiscoverFromFile(path, key string) (map[string]ConfigValue, error) {
	raw, err := h.cache.get(path, parseSnowsqlFile)
	if err != nil {
		return nil, err
	}

	out := make(map[string]ConfigValue, len(raw))
	for k, v := range raw {
		entry := v.(snowsqlEntry)
		out[k] = ConfigValue{
			Key:        k,
			Value:      coerceScalar(entry.value),
			SourceName: h.Name(),
			Priority:   PriorityFile,
			RawValue:   entry.raw,
		}
	}

	if key == "" {
		return out, nil
	}
	// A single-key query for a current name must also find values stored
	// under a legacy spelling. The parse already normalized keys to current
	// names, so a plain lookup answers both directions.
	return filterByKey(out, key), nil
}

// snowsqlEntry carries the parsed text plus the original key=value rendering.
type snowsqlEntry struct {
	value string
	raw   string
}

func parseSnowsqlFile(path string) (map[string]any, error) {
	file, err := loadSnowsqlINI(path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	for _, section := range file.Sections() {
		name := section.Name()
		switch {
		case name == ini.DefaultSection || strings.EqualFold(name, variablesSection):
			continue
		case strings.EqualFold(name, "connections"):
			addSnowsqlSection(out, section, connectionKeyPrefix+DefaultConnectionName+".")
		case strings.HasPrefix(strings.ToLower(name), "connections."):
			conn := strings.ToLower(strings.TrimPrefix(strings.ToLower(name), "connections."))
			addSnowsqlSection(out, section, connectionKeyPrefix+conn+".")
		case strings.EqualFold(name, "options"):
			addSnowsqlSection(out, section, "")
		}
	}
	return out, nil
}

func addSnowsqlSection(out map[string]any, section *ini.Section, prefix string) {
	for _, iniKey := range section.Keys() {
		current, renamed := mapLegacyKey(iniKey.Name())
		configKey := prefix + current

		raw := iniKey.Value()
		if renamed {
			raw = legacyRawValue(strings.ToLower(iniKey.Name()), iniKey.Value())
		}
		if _, claimed := out[configKey]; claimed {
			// dbname and databasename can collide after mapping; first wins.
			continue
		}
		out[configKey] = snowsqlEntry{value: iniKey.Value(), raw: raw}
	}
}

func loadSnowsqlINI(path string) (*ini.File, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		// snowsql files quote values and tolerate inline content loosely.
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("parse snowsql config %q: %w", path, err)
	}
	return file, nil
}

// Variables reads the [variables] section as a flat name -> string mapping.
// Missing section yields an empty map.
func (h *SnowsqlFileHandler) Variables(path string) (map[string]string, error) {
	file, err := loadSnowsqlINI(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, section := range file.Sections() {
		if !strings.EqualFold(section.Name(), variablesSection) {
			continue
		}
		for _, iniKey := range section.Keys() {
			out[iniKey.Name()] = iniKey.Value()
		}
	}
	return out, nil
}

// ConnectionsInFile implements ConnectionSectionLister.
func (h *SnowsqlFileHandler) ConnectionsInFile(path string) ([]string, error) {
	file, err := loadSnowsqlINI(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, section := range file.Sections() {
		name := strings.ToLower(section.Name())
		switch {
		case name == "connections":
			names = append(names, DefaultConnectionName)
		case strings.HasPrefix(name, "connections."):
			names = append(names, strings.TrimPrefix(name, "connections."))
		}
	}
	return names, nil
}

// CanHandleFile implements SourceHandler. Legacy files carry a .cnf or .ini
// extension, or no extension at all with the conventional base name "config".
func (h *SnowsqlFileHandler) CanHandleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cnf", ".ini":
		return true
	case "":
		return filepath.Base(path) == "config"
	default:
		return false
	}
}

// SupportsKey implements SourceHandler.
func (h *SnowsqlFileHandler) SupportsKey(key string) bool { return key != "" }
