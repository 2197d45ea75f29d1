// File: snowcfg/source.go
package snowcfg

import (
	"log/slog"
	"os"
)

// ConfigurationSource is a top-level origin of configuration data. A source
// resolves its internal "first handler/path that has the key wins" policy and
// surfaces at most one ConfigValue per key.
type ConfigurationSource interface {
	// Name identifies the source in logs and replacement bookkeeping.
	Name() string
	// Priority is the source's tier.
	Priority() SourcePriority
	// Discover returns the source's values; an empty key requests the full
	// set. Handler failures are absorbed: the source logs and continues, so
	// Discover never fails.
	Discover(key string) map[string]ConfigValue
}

// ConnectionReporter is implemented by sources that can report which
// connection names they define, including connections whose blocks carry no
// fields. The resolver uses it to apply file-tier replacement semantics.
type ConnectionReporter interface {
	DefinedConnections() []string
}

// handlerSource is the generic template shared by the concrete sources: an
// ordered handler list layered under directly-supplied values. Direct values
// always win over handler-derived ones within the same source.
type handlerSource struct {
	name     string
	priority SourcePriority
	handlers []SourceHandler
	direct   map[string]ConfigValue
	logger   *slog.Logger
}

func newHandlerSource(name string, priority SourcePriority, logger *slog.Logger) handlerSource {
	if logger == nil {
		logger = slog.Default()
	}
	return handlerSource{
		name:     name,
		priority: priority,
		direct:   make(map[string]ConfigValue),
		logger:   logger,
	}
}

// Name implements ConfigurationSource.
func (s *handlerSource) Name() string { return s.name }

// Priority implements ConfigurationSource.
func (s *handlerSource) Priority() SourcePriority { return s.priority }

// AddHandler appends a handler at the lowest precedence position.
func (s *handlerSource) AddHandler(h SourceHandler) { s.handlers = append(s.handlers, h) }

// SetHandlers replaces the handler list.
func (s *handlerSource) SetHandlers(handlers ...SourceHandler) { s.handlers = handlers }

// SetDirect supplies a value that bypasses handler discovery.
func (s *handlerSource) SetDirect(key string, value any) {
	s.direct[key] = NewConfigValue(key, value, s.name, s.priority)
}

// Discover implements ConfigurationSource: the first handler to report a key
// claims it; later handlers may still supply other keys. Direct values are
// applied last and override everything.
func (s *handlerSource) Discover(key string) map[string]ConfigValue {
	out := make(map[string]ConfigValue)
	for _, h := range s.handlers {
		values, err := h.Discover(key)
		if err != nil {
			s.logger.Warn("config handler failed, skipping",
				"source", s.name, "handler", h.Name(), "error", err)
			continue
		}
		for k, v := range values {
			if _, claimed := out[k]; !claimed {
				out[k] = v
			}
		}
	}
	for k, v := range s.direct {
		if key == "" || k == key {
			out[k] = v
		}
	}
	return out
}

// CliArgumentSource wraps a flat mapping of already-parsed CLI option values.
// Only non-nil values surface as ConfigValues; there is no handler
// indirection, though the template still allows one to be attached.
type CliArgumentSource struct {
	handlerSource
}

// CliArgumentSourceName is the source identifier for CLI-supplied values.
const CliArgumentSourceName = "cli_arguments"

// NewCliArgumentSource builds a source from parsed CLI option values.
func NewCliArgumentSource(values map[string]any, logger *slog.Logger) *CliArgumentSource {
	s := &CliArgumentSource{newHandlerSource(CliArgumentSourceName, PriorityCLIArgument, logger)}
	for key, value := range values {
		if value == nil {
			continue
		}
		s.SetDirect(key, value)
	}
	return s
}

// SetArgument records one parsed option value; nil values are ignored.
func (s *CliArgumentSource) SetArgument(key string, value any) {
	if value == nil {
		return
	}
	s.SetDirect(key, value)
}

// EnvironmentSource reads the process environment through an ordered handler
// list, current scheme before legacy. The first handler to report a key wins
// for that key only, which enables per-key migration instead of
// all-or-nothing source precedence.
type EnvironmentSource struct {
	handlerSource
}

// NewEnvironmentSource builds an environment source over the given handlers.
func NewEnvironmentSource(handlers []SourceHandler, logger *slog.Logger) *EnvironmentSource {
	s := &EnvironmentSource{newHandlerSource("environment", PriorityEnvironment, logger)}
	s.SetHandlers(handlers...)
	return s
}

// FileSource reads an ordered list of file paths (highest precedence first)
// through an ordered list of handlers. Precedence is "first file, first
// compatible handler, first occurrence": a key discovered at one origin is
// never overwritten by a later one. Nonexistent paths are silently skipped.
//
// Connection blocks follow replacement semantics within the source: the first
// origin that defines a connection (even with zero fields) claims that
// connection's entire block, and later origins contribute nothing to it.
type FileSource struct {
	handlerSource
	paths []string
}

// NewFileSource builds a file source over paths and handlers.
func NewFileSource(paths []string, handlers []SourceHandler, logger *slog.Logger) *FileSource {
	s := &FileSource{handlerSource: newHandlerSource("config_files", PriorityFile, logger), paths: paths}
	s.SetHandlers(handlers...)
	return s
}

// AddPath appends a path at the lowest precedence position.
func (s *FileSource) AddPath(path string) { s.paths = append(s.paths, path) }

// SetPaths replaces the path list.
func (s *FileSource) SetPaths(paths ...string) { s.paths = paths }

// Paths returns the configured path list, highest precedence first.
func (s *FileSource) Paths() []string { return s.paths }

// fileOrigin is one (path, handler) combination that produced values.
type fileOrigin struct {
	path        string
	handler     SourceHandler
	values      map[string]ConfigValue
	connections []string
}

// scan walks paths and handlers in precedence order. Handler parse caches
// make repeated scans within one resolution pass cheap.
func (s *FileSource) scan() []fileOrigin {
	var origins []fileOrigin
	for _, path := range s.paths {
		if stat, err := os.Stat(path); err != nil || stat.IsDir() {
			continue
		}
		for _, h := range s.handlers {
			if !h.CanHandleFile(path) {
				continue
			}
			values, err := h.DiscoverFromFile(path, "")
			if err != nil {
				s.logger.Warn("config file handler failed, skipping",
					"source", s.name, "handler", h.Name(), "path", path, "error", err)
				continue
			}

			origin := fileOrigin{path: path, handler: h, values: values}
			if lister, ok := h.(ConnectionSectionLister); ok {
				if names, err := lister.ConnectionsInFile(path); err == nil {
					origin.connections = names
				}
			} else {
				origin.connections = connectionNamesFromValues(values)
			}
			origins = append(origins, origin)
		}
	}
	return origins
}

func connectionNamesFromValues(values map[string]ConfigValue) []string {
	seen := make(map[string]bool)
	var names []string
	for key := range values {
		if name, _, ok := splitConnectionKey(key); ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Discover implements ConfigurationSource.
func (s *FileSource) Discover(key string) map[string]ConfigValue {
	out := make(map[string]ConfigValue)
	connOwner := make(map[string]int)

	for i, origin := range s.scan() {
		for _, name := range origin.connections {
			if _, claimed := connOwner[name]; !claimed {
				connOwner[name] = i
			}
		}
		for _, k := range sortedKeys(origin.values) {
			if name, _, isConn := splitConnectionKey(k); isConn {
				owner, tracked := connOwner[name]
				if !tracked {
					connOwner[name] = i
					owner = i
				}
				if owner != i {
					// Block replaced by an earlier origin; field not inherited.
					continue
				}
			}
			if _, claimed := out[k]; !claimed {
				out[k] = origin.values[k]
			}
		}
	}

	for k, v := range s.direct {
		if key == "" || k == key {
			out[k] = v
		}
	}
	return filterByKey(out, key)
}

// DefinedConnections implements ConnectionReporter, in origin precedence
// order, so the resolver can apply cross-source replacement including
// explicitly-empty blocks.
func (s *FileSource) DefinedConnections() []string {
	seen := make(map[string]bool)
	var names []string
	for _, origin := range s.scan() {
		for _, name := range origin.connections {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Variables merges the [variables] sections of all legacy files in the path
// list, first occurrence winning, matching the key precedence rule.
func (s *FileSource) Variables() map[string]string {
	out := make(map[string]string)
	for _, path := range s.paths {
		if stat, err := os.Stat(path); err != nil || stat.IsDir() {
			continue
		}
		for _, h := range s.handlers {
			sq, ok := h.(*SnowsqlFileHandler)
			if !ok || !h.CanHandleFile(path) {
				continue
			}
			vars, err := sq.Variables(path)
			if err != nil {
				s.logger.Warn("variables section unreadable, skipping",
					"path", path, "error", err)
				continue
			}
			for name, value := range vars {
				if _, claimed := out[name]; !claimed {
					out[name] = value
				}
			}
		}
	}
	return out
}
