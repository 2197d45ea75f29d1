// File: snowcfg/doc.go

// Package snowcfg implements layered configuration resolution for Snowflake
// command-line tooling. It reconciles CLI arguments, two generations of
// environment-variable schemes (SNOWFLAKE_* and legacy SNOWSQL_*), and
// multiple configuration file formats (config.toml, connections.toml, and the
// legacy snowsql INI-like file) into a single merged view, while recording a
// full per-key decision history for debugging and export.
//
// Features:
//   - Three source tiers with fixed precedence: CLI arguments > environment > files
//   - Pluggable format handlers (TOML, YAML, legacy snowsql INI) per source
//   - Per-key migration: a legacy handler fills only the keys the current one misses
//   - Legacy key renaming (accountname -> account, pwd -> password, ...) with
//     provenance preserved in the raw value
//   - Connection blocks: whole-block replacement across file origins, field-level
//     overlay from environment and CLI sources
//   - Resolution history: every candidate value, who won, and why
//   - Presentation: terminal tables, per-key decision chains, JSON export with
//     secret masking
//
// Quick Start:
//
//	resolver, err := snowcfg.NewBuilder().
//	    WithCLIArguments(map[string]any{"account": "myorg-myacct"}).
//	    WithEnvironment().
//	    WithFileDiscovery().
//	    WithHistory().
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	merged := resolver.Resolve()
//	conn, err := resolver.ResolveConnection("prod")
//
// Precedence (highest to lowest):
//  1. CLI arguments
//  2. Environment variables (SNOWFLAKE_* before legacy SNOWSQL_*)
//  3. Configuration files (first path, first compatible handler wins)
//
// Within the file tier, connection blocks do not merge field-by-field: the
// first file origin that defines a connection supplies that connection's
// entire file-tier field set. Environment and CLI values still overlay
// individual fields on top of whatever the file tier produced.
//
// Resolution is synchronous and read-only against the process environment and
// the filesystem; a resolver is intended for single-goroutine use within one
// command invocation.
package snowcfg
