// File: snowcfg/variables.go
package snowcfg

import (
	"fmt"
	"strings"
)

// variablesKeyPrefix scopes substitution variables in the flat key space.
// Legacy [variables] sections flow through file discovery under this prefix.
const variablesKeyPrefix = "variables."

// ParseVariableDefinitions parses CLI -D key=value substitution parameters.
// A bare "key" with no value is rejected rather than defaulted; substitution
// variables have no sensible implicit value.
func ParseVariableDefinitions(defs []string) (map[string]string, error) {
	out := make(map[string]string, len(defs))
	for _, def := range defs {
		name, value, found := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("invalid variable definition %q, expected key=value", def)
		}
		out[name] = value
	}
	return out, nil
}

// ResolveVariables merges substitution variables from all sources with
// CLI-supplied -D parameters. File-tier [variables] sections and any
// variables.<name> keys from higher tiers resolve first; cliVars win on
// conflict.
func (r *ConfigurationResolver) ResolveVariables(cliVars map[string]string) map[string]string {
	out := make(map[string]string)

	for key, value := range r.Resolve() {
		name, found := strings.CutPrefix(key, variablesKeyPrefix)
		if !found || name == "" {
			continue
		}
		out[name] = stringify(value)
	}

	// Legacy snowsql [variables] sections are not part of key discovery; pull
	// them from any file sources directly.
	for _, src := range r.sources {
		fs, ok := src.(*FileSource)
		if !ok {
			continue
		}
		for name, value := range fs.Variables() {
			if _, claimed := out[name]; !claimed {
				out[name] = value
			}
		}
	}

	for name, value := range cliVars {
		out[name] = value
	}
	return out
}
