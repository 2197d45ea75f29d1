// File: snowcfg/discovery.go
package snowcfg

import (
	"os"
	"path/filepath"
)

// Config file discovery. Paths are returned highest precedence first:
// an explicit SNOWFLAKE_HOME wins, then the XDG config directory, then
// ~/.snowflake, and finally the legacy ~/.snowsql/config file so existing
// snowsql setups keep working without migration.
//
// Within each directory connections.toml precedes config.toml: a connection
// defined in connections.toml supersedes the same connection in config.toml
// under the file-tier replacement rule.

const snowflakeHomeEnv = "SNOWFLAKE_HOME"

var discoveryFileNames = []string{"connections.toml", "config.toml", "config.yml"}

// DefaultConfigSearchPaths returns the candidate configuration file paths in
// precedence order. Nonexistent paths are included; FileSource skips them
// silently.
func DefaultConfigSearchPaths() []string {
	var dirs []string

	if home := os.Getenv(snowflakeHomeEnv); home != "" {
		dirs = append(dirs, home)
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "snowflake"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "snowflake"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".snowflake"))
	}

	var paths []string
	for _, dir := range dirs {
		for _, name := range discoveryFileNames {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".snowsql", "config"))
	}
	return paths
}

// DefaultFileHandlers returns the standard handler chain for file sources:
// connections.toml before config.toml, the YAML rendition next, and the
// legacy snowsql format last.
func DefaultFileHandlers() []SourceHandler {
	return []SourceHandler{
		NewConnectionsTOMLHandler(),
		NewConfigTOMLHandler(),
		NewYAMLFileHandler(),
		NewSnowsqlFileHandler(),
	}
}

// DefaultEnvHandlers returns the standard environment handler chain, current
// scheme before legacy so SNOWFLAKE_* wins per key over SNOWSQL_*.
func DefaultEnvHandlers() []SourceHandler {
	return []SourceHandler{
		NewSnowflakeEnvHandler(),
		NewSnowsqlEnvHandler(),
	}
}
