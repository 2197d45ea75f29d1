// File: snowcfg/resolver.go
package snowcfg

import "log/slog"

// ConfigurationResolver merges an ordered list of sources (index 0 = highest
// precedence) into a single flat mapping, applying connection replacement and
// overlay semantics, and mirrors every step to the registered observers.
//
// Resolution is read-only against the environment and filesystem; the
// resolver holds no cross-invocation state.
type ConfigurationResolver struct {
	sources   []ConfigurationSource
	observers []ResolutionObserver
	tracker   *ResolutionHistoryTracker
	logger    *slog.Logger
}

// ResolverOption customizes a ConfigurationResolver.
type ResolverOption func(*ConfigurationResolver)

// WithHistory enables full per-key history tracking.
func WithHistory() ResolverOption {
	return func(r *ConfigurationResolver) {
		r.tracker = NewResolutionHistoryTracker()
	}
}

// WithObserver registers an additional side-channel observer.
func WithObserver(o ResolutionObserver) ResolverOption {
	return func(r *ConfigurationResolver) {
		r.observers = append(r.observers, o)
	}
}

// WithLogger sets the logger used for absorbed handler failures.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *ConfigurationResolver) {
		r.logger = logger
	}
}

// NewConfigurationResolver builds a resolver over sources, highest precedence
// first.
func NewConfigurationResolver(sources []ConfigurationSource, opts ...ResolverOption) *ConfigurationResolver {
	r := &ConfigurationResolver{sources: sources, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sources returns the resolver's source list, highest precedence first.
func (r *ConfigurationResolver) Sources() []ConfigurationSource { return r.sources }

// History returns the resolution history tracker, or nil when history
// tracking is disabled.
func (r *ConfigurationResolver) History() *ResolutionHistoryTracker { return r.tracker }

// AddSource appends a source at the lowest precedence position.
func (r *ConfigurationResolver) AddSource(s ConfigurationSource) {
	r.sources = append(r.sources, s)
}

// discovery is one candidate value along with the index of the source that
// produced it and whether file-tier replacement dropped it.
type discovery struct {
	value       ConfigValue
	sourceIndex int
	replaced    bool
	// replacedBy names the file source owning the connection block that
	// dropped this candidate.
	replacedBy string
}

// Resolve performs a full merge across all sources for all keys.
//
// Flat keys use simple override: the first source in list order that supplies
// the key wins. Connection-scoped keys additionally honor replacement at the
// file tier (the first file source defining a connection owns its whole
// block) while environment and CLI sources overlay individual fields.
//
// History for the pass is rebuilt from scratch so repeated calls on an
// unchanged configuration yield identical summaries.
func (r *ConfigurationResolver) Resolve() map[string]any {
	if r.tracker != nil {
		r.tracker.Clear()
	}

	perKey := r.gather()

	final := make(map[string]any, len(perKey))
	for _, key := range sortedKeys(perKey) {
		candidates := perKey[key]
		for _, d := range candidates {
			r.recordDiscovery(d.value)
		}
		winner, ok := r.selectWinner(key, candidates)
		if !ok {
			continue
		}
		final[key] = winner.Value
	}

	r.finalize(final)
	return final
}

// gather collects candidates per key across all sources in precedence order,
// applying file-tier connection replacement bookkeeping.
func (r *ConfigurationResolver) gather() map[string][]discovery {
	perKey := make(map[string][]discovery)
	// connOwner maps a connection name to the index of the file-tier source
	// owning its block, with the owning source's name for bookkeeping.
	type owner struct {
		index int
		name  string
	}
	connOwner := make(map[string]owner)

	for i, src := range r.sources {
		if src.Priority() == PriorityFile {
			if reporter, ok := src.(ConnectionReporter); ok {
				for _, name := range reporter.DefinedConnections() {
					if _, claimed := connOwner[name]; !claimed {
						connOwner[name] = owner{index: i, name: src.Name()}
					}
				}
			}
		}

		values := src.Discover("")
		for _, key := range sortedKeys(values) {
			d := discovery{value: values[key], sourceIndex: i}
			if name, _, isConn := splitConnectionKey(key); isConn && src.Priority() == PriorityFile {
				own, claimed := connOwner[name]
				if !claimed {
					own = owner{index: i, name: src.Name()}
					connOwner[name] = own
				}
				if own.index != i {
					d.replaced = true
					d.replacedBy = own.name
				}
			}
			perKey[key] = append(perKey[key], d)
		}
	}
	return perKey
}

// selectWinner picks the first non-replaced candidate and mirrors the
// decision to observers. A key whose every candidate was replacement-dropped
// has no winner and no selected history entry.
func (r *ConfigurationResolver) selectWinner(key string, candidates []discovery) (ConfigValue, bool) {
	for _, d := range candidates {
		if d.replaced {
			continue
		}
		r.markSelected(key, d.value)
		return d.value, true
	}
	if len(candidates) > 0 && r.tracker != nil {
		r.tracker.MarkReplaced(key, candidates[0].replacedBy)
	}
	return ConfigValue{}, false
}

// ResolveValue resolves one key under the same rules as Resolve. If no source
// supplies it, def is returned and the history records that a default was
// used, overwriting any prior final value for that key.
func (r *ConfigurationResolver) ResolveValue(key string, def any) any {
	var candidates []discovery

	name, _, isConn := splitConnectionKey(key)
	fileOwner := -1
	fileOwnerName := ""

	for i, src := range r.sources {
		if isConn && src.Priority() == PriorityFile {
			defines := false
			if reporter, ok := src.(ConnectionReporter); ok {
				for _, defined := range reporter.DefinedConnections() {
					if defined == name {
						defines = true
						break
					}
				}
			}
			if defines && fileOwner < 0 {
				fileOwner = i
				fileOwnerName = src.Name()
			}
		}

		values := src.Discover(key)
		v, ok := values[key]
		if !ok {
			continue
		}
		d := discovery{value: v, sourceIndex: i}
		if isConn && src.Priority() == PriorityFile {
			if fileOwner < 0 {
				fileOwner = i
				fileOwnerName = src.Name()
			}
			if fileOwner != i {
				d.replaced = true
				d.replacedBy = fileOwnerName
			}
		}
		candidates = append(candidates, d)
	}

	for _, d := range candidates {
		r.recordDiscovery(d.value)
	}
	if winner, ok := r.selectWinner(key, candidates); ok {
		return winner.Value
	}
	if len(candidates) == 0 {
		r.markDefaultUsed(key, def)
		return def
	}
	// Every candidate was dropped by connection replacement: the key is
	// absent from the merged view, so the default governs.
	r.markDefaultUsed(key, def)
	return def
}

// HistorySummary aggregates the tracker's counts. Returns a zero summary when
// history tracking is disabled.
func (r *ConfigurationResolver) HistorySummary() HistorySummary {
	if r.tracker == nil {
		return HistorySummary{Sources: map[string]SourceStats{}}
	}
	return r.tracker.Summary()
}

// observer fan-out helpers. The tracker, when present, is always notified
// first so debug commands see state before external observers run.

func (r *ConfigurationResolver) recordDiscovery(v ConfigValue) {
	if name, _, isConn := splitConnectionKey(v.Key); isConn {
		if r.tracker != nil {
			r.tracker.RecordNestedDiscovery(name, v)
		}
		for _, o := range r.observers {
			o.RecordNestedDiscovery(name, v)
		}
		return
	}
	if r.tracker != nil {
		r.tracker.RecordDiscovery(v)
	}
	for _, o := range r.observers {
		o.RecordDiscovery(v)
	}
}

func (r *ConfigurationResolver) markSelected(key string, v ConfigValue) {
	if r.tracker != nil {
		r.tracker.MarkSelected(key, v)
	}
	for _, o := range r.observers {
		o.MarkSelected(key, v)
	}
}

func (r *ConfigurationResolver) markDefaultUsed(key string, def any) {
	if r.tracker != nil {
		r.tracker.MarkDefaultUsed(key, def)
	}
	for _, o := range r.observers {
		o.MarkDefaultUsed(key, def)
	}
}

func (r *ConfigurationResolver) finalize(final map[string]any) {
	if r.tracker != nil {
		r.tracker.FinalizeWithResult(final)
	}
	for _, o := range r.observers {
		o.FinalizeWithResult(final)
	}
}
