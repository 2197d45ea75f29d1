// File: snowcfg/history.go
package snowcfg

import "sort"

// ResolutionObserver receives a mirror of every resolver operation. Observers
// are a pure side channel: they never alter resolution outcomes.
type ResolutionObserver interface {
	// RecordDiscovery is called for every candidate value of a flat key.
	RecordDiscovery(value ConfigValue)
	// RecordNestedDiscovery is called for connection-scoped candidates.
	RecordNestedDiscovery(connection string, value ConfigValue)
	// MarkSelected reports the winning value for a key.
	MarkSelected(key string, value ConfigValue)
	// MarkDefaultUsed reports that no source supplied the key.
	MarkDefaultUsed(key string, def any)
	// FinalizeWithResult delivers the final merged mapping of a full pass.
	FinalizeWithResult(final map[string]any)
}

// ResolutionEntry is one ConfigValue observed while resolving a single key.
type ResolutionEntry struct {
	Value ConfigValue
	// WasUsed is true for the entry that won. At most one entry per key is
	// marked, and none when the final value came from a default or from
	// connection-replacement bookkeeping.
	WasUsed bool
	// OverriddenBy names the winning source, or is empty if this entry won
	// or no later source competed.
	OverriddenBy string
}

// ResolutionHistory aggregates the candidates for one key in discovery order,
// which equals source-precedence order (highest precedence first).
type ResolutionHistory struct {
	Key         string
	Entries     []ResolutionEntry
	FinalValue  any
	DefaultUsed bool
}

// SourceStats counts per-source participation in a resolution pass.
type SourceStats struct {
	Discovered int
	Selected   int
}

// HistorySummary aggregates a resolution pass for quick inspection.
type HistorySummary struct {
	// TotalKeys is the number of distinct keys resolved.
	TotalKeys int
	// OverriddenKeys counts keys where more than one source contributed.
	OverriddenKeys int
	// DefaultKeys counts keys that fell back to a supplied default.
	DefaultKeys int
	// Sources holds per-source usage and win counts.
	Sources map[string]SourceStats
}

// ResolutionHistoryTracker keeps the full per-key entry list and is the
// source of truth for the debug commands. It implements ResolutionObserver
// and additionally understands connection-replacement bookkeeping.
type ResolutionHistoryTracker struct {
	histories map[string]*ResolutionHistory
}

// NewResolutionHistoryTracker returns an empty tracker.
func NewResolutionHistoryTracker() *ResolutionHistoryTracker {
	return &ResolutionHistoryTracker{histories: make(map[string]*ResolutionHistory)}
}

func (t *ResolutionHistoryTracker) history(key string) *ResolutionHistory {
	h, ok := t.histories[key]
	if !ok {
		h = &ResolutionHistory{Key: key}
		t.histories[key] = h
	}
	return h
}

// RecordDiscovery implements ResolutionObserver.
func (t *ResolutionHistoryTracker) RecordDiscovery(value ConfigValue) {
	h := t.history(value.Key)
	h.Entries = append(h.Entries, ResolutionEntry{Value: value})
}

// RecordNestedDiscovery implements ResolutionObserver.
func (t *ResolutionHistoryTracker) RecordNestedDiscovery(connection string, value ConfigValue) {
	t.RecordDiscovery(value)
}

// MarkSelected implements ResolutionObserver. The matching entry gets
// WasUsed; every other entry is marked overridden by the winner. When the
// final value has no matching discovery entry (connection-replacement
// bookkeeping), no entry is marked selected.
func (t *ResolutionHistoryTracker) MarkSelected(key string, value ConfigValue) {
	h := t.history(key)
	h.FinalValue = value.Value
	h.DefaultUsed = false

	selected := -1
	for i := range h.Entries {
		if h.Entries[i].Value.SourceName == value.SourceName && !h.Entries[i].WasUsed {
			selected = i
			break
		}
	}
	for i := range h.Entries {
		if i == selected {
			h.Entries[i].WasUsed = true
			h.Entries[i].OverriddenBy = ""
			continue
		}
		h.Entries[i].WasUsed = false
		h.Entries[i].OverriddenBy = value.SourceName
	}
}

// MarkReplaced marks every unselected entry of a connection-scoped key as
// overridden by the file origin that claimed the whole connection block. Used
// when replacement drops a field without any per-key winner existing.
func (t *ResolutionHistoryTracker) MarkReplaced(key, bySource string) {
	h := t.history(key)
	for i := range h.Entries {
		if !h.Entries[i].WasUsed {
			h.Entries[i].OverriddenBy = bySource
		}
	}
}

// MarkDefaultUsed implements ResolutionObserver. A default overwrites any
// prior final value recorded for the key.
func (t *ResolutionHistoryTracker) MarkDefaultUsed(key string, def any) {
	h := t.history(key)
	h.FinalValue = def
	h.DefaultUsed = true
	for i := range h.Entries {
		h.Entries[i].WasUsed = false
	}
}

// FinalizeWithResult implements ResolutionObserver.
func (t *ResolutionHistoryTracker) FinalizeWithResult(final map[string]any) {}

// GetResolutionHistory returns the history for one key, or nil if the key
// was never touched.
func (t *ResolutionHistoryTracker) GetResolutionHistory(key string) *ResolutionHistory {
	return t.histories[key]
}

// Keys returns every tracked key in lexical order.
func (t *ResolutionHistoryTracker) Keys() []string {
	return sortedKeys(t.histories)
}

// SourceNames returns every source name seen in any entry, in lexical order.
func (t *ResolutionHistoryTracker) SourceNames() []string {
	seen := make(map[string]bool)
	for _, h := range t.histories {
		for _, e := range h.Entries {
			seen[e.Value.SourceName] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary aggregates counts across all tracked keys.
func (t *ResolutionHistoryTracker) Summary() HistorySummary {
	summary := HistorySummary{Sources: make(map[string]SourceStats)}
	for _, h := range t.histories {
		summary.TotalKeys++
		if len(h.Entries) > 1 {
			summary.OverriddenKeys++
		}
		if h.DefaultUsed {
			summary.DefaultKeys++
		}
		for _, e := range h.Entries {
			stats := summary.Sources[e.Value.SourceName]
			stats.Discovered++
			if e.WasUsed {
				stats.Selected++
			}
			summary.Sources[e.Value.SourceName] = stats
		}
	}
	return summary
}

// Clear drops all tracked histories for reuse across resolutions.
func (t *ResolutionHistoryTracker) Clear() {
	t.histories = make(map[string]*ResolutionHistory)
}

// TelemetryObserver keeps only aggregate counters. Cheap and safe to always
// enable.
type TelemetryObserver struct {
	Discoveries       int
	NestedDiscoveries int
	Selections        int
	DefaultsUsed      int
	Resolutions       int
	BySource          map[string]int
}

// NewTelemetryObserver returns a zeroed telemetry observer.
func NewTelemetryObserver() *TelemetryObserver {
	return &TelemetryObserver{BySource: make(map[string]int)}
}

// RecordDiscovery implements ResolutionObserver.
func (o *TelemetryObserver) RecordDiscovery(value ConfigValue) {
	o.Discoveries++
	o.BySource[value.SourceName]++
}

// RecordNestedDiscovery implements ResolutionObserver.
func (o *TelemetryObserver) RecordNestedDiscovery(connection string, value ConfigValue) {
	o.NestedDiscoveries++
	o.BySource[value.SourceName]++
}

// MarkSelected implements ResolutionObserver.
func (o *TelemetryObserver) MarkSelected(key string, value ConfigValue) {
	o.Selections++
}

// MarkDefaultUsed implements ResolutionObserver.
func (o *TelemetryObserver) MarkDefaultUsed(key string, def any) {
	o.DefaultsUsed++
}

// FinalizeWithResult implements ResolutionObserver.
func (o *TelemetryObserver) FinalizeWithResult(final map[string]any) {
	o.Resolutions++
}

// Reset zeroes all counters for reuse.
func (o *TelemetryObserver) Reset() {
	*o = TelemetryObserver{BySource: make(map[string]int)}
}
