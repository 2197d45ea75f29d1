// File: snowcfg/value.go
package snowcfg

import (
	"fmt"
	"strconv"
	"strings"
)

// SourcePriority orders the three source tiers. A lower ordinal wins; ties
// within a tier are broken by the declared source order in the resolver.
type SourcePriority int

const (
	// PriorityCLIArgument is the highest tier: explicitly passed options.
	PriorityCLIArgument SourcePriority = iota
	// PriorityEnvironment covers both the current and legacy env schemes.
	PriorityEnvironment
	// PriorityFile is the lowest tier: configuration files on disk.
	PriorityFile
)

// String returns the tier name used in history output.
func (p SourcePriority) String() string {
	switch p {
	case PriorityCLIArgument:
		return "cli_argument"
	case PriorityEnvironment:
		return "environment"
	case PriorityFile:
		return "file"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ConfigValue is one discovered configuration fact: a key/value pair tagged
// with the source that produced it. Values are treated as immutable once
// constructed.
type ConfigValue struct {
	// Key is the dotted configuration key, e.g. "connections.prod.account".
	Key string
	// Value is the parsed scalar (string, int, bool or list).
	Value any
	// SourceName identifies the producing source or handler, e.g.
	// "cli_arguments", "snowflake_cli_env", "snowsql_env", "toml:config",
	// "snowsql_config".
	SourceName string
	// Priority is the tier of the producing source.
	Priority SourcePriority
	// RawValue is the original unparsed text. It differs from Value when the
	// value was type-coerced or the key was renamed from a legacy name, in
	// which case it reads "<original_key>=<value>".
	RawValue string
}

// NewConfigValue builds a ConfigValue whose raw text is the plain rendering
// of the parsed value.
func NewConfigValue(key string, value any, sourceName string, priority SourcePriority) ConfigValue {
	return ConfigValue{
		Key:        key,
		Value:      value,
		SourceName: sourceName,
		Priority:   priority,
		RawValue:   stringify(value),
	}
}

// stringify renders a parsed scalar back to text for raw-value bookkeeping.
func stringify(value any) string {
	return fmt.Sprintf("%v", value)
}

// coerceScalar parses environment/INI text into a typed scalar. Integer-looking
// values become int; the usual boolean spellings become bool; everything else
// stays a string. Integers are checked first so "1"/"0" keep working as
// numeric values (ports, sizes); boolean consumers accept them either way.
func coerceScalar(text string) any {
	trimmed := strings.TrimSpace(text)
	if i, err := strconv.Atoi(trimmed); err == nil {
		return i
	}
	switch strings.ToLower(trimmed) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return text
}

// connectionKeyPrefix scopes connection fields in the flat key space.
const connectionKeyPrefix = "connections."

// splitConnectionKey decomposes "connections.<name>.<field>" into its parts.
// The field itself may contain dots only in theory; the last segment past the
// connection name is taken verbatim.
func splitConnectionKey(key string) (name, field string, ok bool) {
	rest, found := strings.CutPrefix(key, connectionKeyPrefix)
	if !found {
		return "", "", false
	}
	name, field, found = strings.Cut(rest, ".")
	if !found || name == "" || field == "" {
		return "", "", false
	}
	return name, field, true
}

// connectionKey is the inverse of splitConnectionKey.
func connectionKey(name, field string) string {
	return connectionKeyPrefix + name + "." + field
}
