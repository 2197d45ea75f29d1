// File: snowcfg/handler.go
package snowcfg

// SourceHandler is a pluggable unit that knows how to extract key/value pairs
// from one format at one nesting path. Handlers are stateless with respect to
// discovery; file-backed handlers may cache parsed file contents.
//
// A handler that fails during discovery must not abort the owning source: the
// source logs the failure and continues with its remaining handlers.
type SourceHandler interface {
	// Name is the stable source identifier stamped onto produced ConfigValues.
	Name() string

	// Discover returns values from in-memory data (typically the process
	// environment). An empty key requests the full set; a non-empty key
	// restricts the answer to that key. Handlers that only read files return
	// ErrNotEnvBacked.
	Discover(key string) (map[string]ConfigValue, error)

	// DiscoverFromFile returns values parsed from the file at path, filtered
	// by key in the same way. Handlers with no file-backed variant return
	// ErrNotFileBacked.
	DiscoverFromFile(path, key string) (map[string]ConfigValue, error)

	// CanHandleFile declares format compatibility by extension or path shape
	// so a FileSource can skip incompatible handlers without error.
	CanHandleFile(path string) bool

	// SupportsKey is a capability probe independent of current data presence.
	SupportsKey(key string) bool
}

// ConnectionSectionLister is implemented by file-backed handlers that can
// report which connection names a file defines, including explicitly-empty
// blocks. An empty block still counts as "defines the connection" and
// triggers whole-block replacement at the file tier.
type ConnectionSectionLister interface {
	ConnectionsInFile(path string) ([]string, error)
}

// fileCache is the one-entry parse cache file-backed handlers keep. It is
// keyed by path and invalidated on path change, not on mtime: a file that
// changes on disk within one process lifetime is served stale. Config files
// are static for the duration of a CLI invocation, so this is accepted.
type fileCache struct {
	path string
	data map[string]any
}

// get returns the cached parse for path, or calls parse and caches the result.
func (c *fileCache) get(path string, parse func(string) (map[string]any, error)) (map[string]any, error) {
	if c.path == path && c.data != nil {
		return c.data, nil
	}
	data, err := parse(path)
	if err != nil {
		return nil, err
	}
	c.path = path
	c.data = data
	return data, nil
}

// filterByKey narrows a discovery result to one key when requested.
func filterByKey(values map[string]ConfigValue, key string) map[string]ConfigValue {
	if key == "" {
		return values
	}
	out := make(map[string]ConfigValue, 1)
	if v, ok := values[key]; ok {
		out[key] = v
	}
	return out
}
