// File: snowcfg/keymap.go
package snowcfg

import "strings"

// legacyKeyNames maps snowsql-era key names to their current equivalents.
// Lookup is case-insensitive; unmapped keys pass through unchanged.
var legacyKeyNames = map[string]string{
	"accountname":   "account",
	"username":      "user",
	"pwd":           "password",
	"dbname":        "database",
	"databasename":  "database",
	"schemaname":    "schema",
	"warehousename": "warehouse",
	"rolename":      "role",
}

// currentKeyAliases is the reverse view, built once at package init by
// enumerating the forward table. Several legacy spellings can map to one
// current key (dbname and databasename), so the reverse lookup yields a list.
var currentKeyAliases = buildCurrentKeyAliases()

func buildCurrentKeyAliases() map[string][]string {
	aliases := make(map[string][]string, len(legacyKeyNames))
	// Fixed enumeration order keeps alias lists deterministic.
	for _, legacy := range []string{
		"accountname", "username", "pwd", "dbname", "databasename",
		"schemaname", "warehousename", "rolename",
	} {
		current := legacyKeyNames[legacy]
		aliases[current] = append(aliases[current], legacy)
	}
	return aliases
}

// mapLegacyKey translates a legacy key name to its current name. The second
// return reports whether a rename happened.
func mapLegacyKey(name string) (string, bool) {
	if current, ok := legacyKeyNames[strings.ToLower(name)]; ok {
		return current, true
	}
	return strings.ToLower(name), false
}

// legacyAliases answers a single-key discovery query in reverse: given a
// current key name, which legacy spellings could supply it. The current name
// itself is always a candidate since unmapped keys pass through.
func legacyAliases(current string) []string {
	lowered := strings.ToLower(current)
	out := []string{lowered}
	out = append(out, currentKeyAliases[lowered]...)
	return out
}

// legacyRawValue formats the raw text for a renamed key so history display
// can show the original spelling.
func legacyRawValue(originalKey string, value any) string {
	return originalKey + "=" + plainText(value)
}

func plainText(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return stringify(value)
}
