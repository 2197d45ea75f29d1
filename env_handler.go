// File: snowcfg/env_handler.go
package snowcfg

import (
	"os"
	"sort"
	"strings"
)

// Environment variable prefixes for the two recognized schemes.
const (
	snowflakeEnvPrefix            = "SNOWFLAKE_"
	snowflakeConnectionsEnvPrefix = "SNOWFLAKE_CONNECTIONS_"
	snowsqlEnvPrefix              = "SNOWSQL_"
)

// connectionFields enumerates the connection record fields recognized in
// connection-scoped environment variables. Longest names are matched first so
// PRIVATE_KEY_FILE_PWD is not mistaken for a connection named
// "...private_key" with field "file_pwd".
var connectionFields = []string{
	"private_key_file_pwd",
	"token_file_path",
	"private_key_file",
	"private_key_path",
	"authenticator",
	"warehouse",
	"database",
	"password",
	"account",
	"schema",
	"region",
	"token",
	"role",
	"user",
	"host",
	"port",
}

// SnowflakeEnvHandler reads the current environment-variable scheme:
// SNOWFLAKE_<KEY> for flat keys and SNOWFLAKE_CONNECTIONS_<NAME>_<FIELD> for
// connection-scoped keys. Names are case-folded to lowercase config keys.
type SnowflakeEnvHandler struct{}

// NewSnowflakeEnvHandler returns the current-scheme environment handler.
func NewSnowflakeEnvHandler() *SnowflakeEnvHandler {
	return &SnowflakeEnvHandler{}
}

// Name implements SourceHandler.
func (h *SnowflakeEnvHandler) Name() string { return "snowflake_cli_env" }

// Discover implements SourceHandler.
func (h *SnowflakeEnvHandler) Discover(key string) (map[string]ConfigValue, error) {
	out := make(map[string]ConfigValue)
	for _, entry := range sortedEnviron() {
		envName, text, found := strings.Cut(entry, "=")
		if !found || !strings.HasPrefix(envName, snowflakeEnvPrefix) {
			continue
		}

		configKey, ok := h.keyForEnvName(envName)
		if !ok {
			continue
		}
		if _, claimed := out[configKey]; claimed {
			continue
		}

		out[configKey] = ConfigValue{
			Key:        configKey,
			Value:      coerceScalar(text),
			SourceName: h.Name(),
			Priority:   PriorityEnvironment,
			RawValue:   text,
		}
	}
	return filterByKey(out, key), nil
}

// keyForEnvName translates an environment variable name into a config key.
func (h *SnowflakeEnvHandler) keyForEnvName(envName string) (string, bool) {
	if rest, ok := strings.CutPrefix(envName, snowflakeConnectionsEnvPrefix); ok {
		if name, field, ok := splitConnectionEnvRest(rest); ok {
			return connectionKey(name, field), true
		}
		return "", false
	}
	rest := strings.TrimPrefix(envName, snowflakeEnvPrefix)
	if rest == "" {
		return "", false
	}
	return strings.ToLower(rest), true
}

// splitConnectionEnvRest splits "<NAME>_<FIELD>" by matching the longest
// known field suffix; the remainder is the connection name. Both name and
// field may contain underscores, which makes the split ambiguous without the
// known-field table.
func splitConnectionEnvRest(rest string) (name, field string, ok bool) {
	lowered := strings.ToLower(rest)
	for _, f := range connectionFields {
		suffix := "_" + f
		if strings.HasSuffix(lowered, suffix) && len(lowered) > len(suffix) {
			return lowered[:len(lowered)-len(suffix)], f, true
		}
	}
	return "", "", false
}

// DiscoverFromFile implements SourceHandler; environment handlers have no
// file-backed variant.
func (h *SnowflakeEnvHandler) DiscoverFromFile(path, key string) (map[string]ConfigValue, error) {
	return nil, ErrNotFileBacked
}

// CanHandleFile implements SourceHandler.
func (h *SnowflakeEnvHandler) CanHandleFile(path string) bool { return false }

// SupportsKey implements SourceHandler. The current scheme can express any
// flat or connection-scoped key.
func (h *SnowflakeEnvHandler) SupportsKey(key string) bool { return key != "" }

// SnowsqlEnvHandler reads the legacy SNOWSQL_* environment scheme. Legacy key
// names are translated to current names through the migration table; the raw
// value preserves the original variable for history display.
type SnowsqlEnvHandler struct{}

// NewSnowsqlEnvHandler returns the legacy-scheme environment handler.
func NewSnowsqlEnvHandler() *SnowsqlEnvHandler {
	return &SnowsqlEnvHandler{}
}

// Name implements SourceHandler.
func (h *SnowsqlEnvHandler) Name() string { return "snowsql_env" }

// Discover implements SourceHandler.
func (h *SnowsqlEnvHandler) Discover(key string) (map[string]ConfigValue, error) {
	out := make(map[string]ConfigValue)
	for _, entry := range sortedEnviron() {
		envName, text, found := strings.Cut(entry, "=")
		if !found || !strings.HasPrefix(envName, snowsqlEnvPrefix) {
			continue
		}
		rest := strings.TrimPrefix(envName, snowsqlEnvPrefix)
		if rest == "" {
			continue
		}

		configKey, renamed := mapLegacyKey(rest)
		if _, claimed := out[configKey]; claimed {
			continue
		}

		raw := text
		if renamed {
			raw = legacyRawValue(envName, text)
		}
		out[configKey] = ConfigValue{
			Key:        configKey,
			Value:      coerceScalar(text),
			SourceName: h.Name(),
			Priority:   PriorityEnvironment,
			RawValue:   raw,
		}
	}
	return filterByKey(out, key), nil
}

// DiscoverFromFile implements SourceHandler.
func (h *SnowsqlEnvHandler) DiscoverFromFile(path, key string) (map[string]ConfigValue, error) {
	return nil, ErrNotFileBacked
}

// CanHandleFile implements SourceHandler.
func (h *SnowsqlEnvHandler) CanHandleFile(path string) bool { return false }

// SupportsKey implements SourceHandler. The legacy scheme has no
// connection-scoped variables.
func (h *SnowsqlEnvHandler) SupportsKey(key string) bool {
	if key == "" {
		return false
	}
	_, _, isConnection := splitConnectionKey(key)
	return !isConnection
}

// sortedEnviron returns the process environment in deterministic order so
// repeated resolutions discover keys identically.
func sortedEnviron() []string {
	env := os.Environ()
	sort.Strings(env)
	return env
}
