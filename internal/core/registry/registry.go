package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nlcmd/cli/internal/core/domain"
)

// Defaults for resolution behavior.
const (
	DefaultFuzzyThreshold = 0.75
	DefaultCacheSize      = 256
)

// Config tunes verb resolution.
type Config struct {
	FuzzyEnabled   bool
	FuzzyThreshold float64
	CacheSize      int
}

// DefaultConfig returns the documented resolution defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyEnabled:   true,
		FuzzyThreshold: DefaultFuzzyThreshold,
		CacheSize:      DefaultCacheSize,
	}
}

type entry struct {
	plugin *domain.Plugin
	order  int
}

// VerbRegistry owns the set of registered plugins and resolves verb text
// to exactly one plugin. Reads proceed concurrently under the read lock;
// mutations take the write lock and purge the resolution cache so no
// reader ever observes an entry computed against a superseded plugin set.
type VerbRegistry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	seq     int
	cache   *resolutionCache
	cfg     Config
}

// Stats reports registry observability counters.
type Stats struct {
	Plugins           int
	CachedResolutions int
}

// NewVerbRegistry creates a registry with normalized configuration.
func NewVerbRegistry(cfg Config) *VerbRegistry {
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > 1 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	return &VerbRegistry{
		entries: make(map[string]*entry),
		cache:   newResolutionCache(cfg.CacheSize),
		cfg:     cfg,
	}
}

// Register adds or replaces a plugin. Replacing an existing name keeps
// its original registration-order slot so tie-breaks stay stable across
// reloads. Every registration invalidates the resolution cache.
func (r *VerbRegistry) Register(p *domain.Plugin) error {
	if p == nil {
		return fmt.Errorf("cannot register a nil plugin")
	}
	if strings.TrimSpace(p.Name()) == "" {
		return fmt.Errorf("cannot register a plugin with an empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[p.Name()]; ok {
		existing.plugin = p
	} else {
		r.entries[p.Name()] = &entry{plugin: p, order: r.seq}
		r.seq++
	}
	r.cache.purge()
	return nil
}

// RegisterCapability snapshots a structural Capability and registers it.
func (r *VerbRegistry) RegisterCapability(c domain.Capability) error {
	p, err := domain.FromCapability(c)
	if err != nil {
		return err
	}
	return r.Register(p)
}

// Unregister removes a plugin by name and invalidates the cache.
func (r *VerbRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("plugin %q is not registered", name)
	}
	delete(r.entries, name)
	r.cache.purge()
	return nil
}

// Reset drops every registered plugin and purges the cache.
func (r *VerbRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]*entry)
	r.seq = 0
	r.cache.purge()
}

// InvalidateCache drops all memoized resolutions without touching the
// plugin set.
func (r *VerbRegistry) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.purge()
}

// Plugins returns the registered plugins in registration order.
func (r *VerbRegistry) Plugins() []*domain.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	plugins := make([]*domain.Plugin, len(ordered))
	for i, e := range ordered {
		plugins[i] = e.plugin
	}
	return plugins
}

// GetStats returns plugin and cache counters.
func (r *VerbRegistry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{Plugins: len(r.entries), CachedResolutions: r.cache.len()}
}

// Resolve maps verb text to the single owning plugin, or nil when no
// plugin can handle it. Absence is an explicit outcome, not an error.
// Outcomes, including no-match, are cached under the normalized text.
func (r *VerbRegistry) Resolve(verbText string) *domain.Plugin {
	normalized := domain.NormalizeVerb(verbText)
	if normalized == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.cache.get(normalized); ok {
		return p
	}
	p := r.resolveLocked(normalized)
	r.cache.put(normalized, p)
	return p
}

// ResolveCanonical resolves verb text and also reports the canonical
// verb the text mapped to, accounting for aliases and fuzzy matches.
func (r *VerbRegistry) ResolveCanonical(verbText string) (*domain.Plugin, string) {
	p := r.Resolve(verbText)
	if p == nil {
		return nil, ""
	}

	normalized := domain.NormalizeVerb(verbText)
	if canonical, ok := p.CanonicalVerb(normalized); ok {
		return p, canonical
	}

	// Fuzzy match: find the closest key within the owning plugin.
	bestScore := -1.0
	bestKey := ""
	for _, key := range p.MatchKeys() {
		if score := similarity(normalized, key); score > bestScore {
			bestScore, bestKey = score, key
		}
	}
	canonical, _ := p.CanonicalVerb(bestKey)
	return p, canonical
}

func (r *VerbRegistry) resolveLocked(normalized string) *domain.Plugin {
	if p := r.bestHandler(normalized); p != nil {
		return p
	}
	if !r.cfg.FuzzyEnabled {
		return nil
	}
	canonical := r.closestCanonical(normalized)
	if canonical == "" {
		return nil
	}
	return r.bestHandler(canonical)
}

// bestHandler collects every plugin that can handle the normalized verb
// and applies the tie-break: highest priority, then core namespace, then
// earliest registration order.
func (r *VerbRegistry) bestHandler(normalized string) *domain.Plugin {
	var best *entry
	for _, e := range r.entries {
		if !e.plugin.CanHandle(normalized) {
			continue
		}
		if best == nil || better(e, best) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return best.plugin
}

func better(a, b *entry) bool {
	if a.plugin.Priority() != b.plugin.Priority() {
		return a.plugin.Priority() > b.plugin.Priority()
	}
	if a.plugin.IsCore() != b.plugin.IsCore() {
		return a.plugin.IsCore()
	}
	return a.order < b.order
}

// closestCanonical scans every verb and alias across all plugins for the
// best similarity score against the unmatched text. Score ties break on
// the lexicographically smaller key, then on the stronger owning entry,
// so fuzzy resolution is deterministic. Returns "" when the best score
// falls below the configured threshold.
func (r *VerbRegistry) closestCanonical(normalized string) string {
	bestScore := 0.0
	bestKey := ""
	var bestOwner *entry

	for _, e := range r.entries {
		for _, key := range e.plugin.MatchKeys() {
			score := similarity(normalized, key)
			switch {
			case score > bestScore:
				bestScore, bestKey, bestOwner = score, key, e
			case score == bestScore && bestOwner != nil:
				if key < bestKey || (key == bestKey && better(e, bestOwner)) {
					bestKey, bestOwner = key, e
				}
			}
		}
	}

	if bestOwner == nil || bestScore < r.cfg.FuzzyThreshold {
		return ""
	}
	canonical, _ := bestOwner.plugin.CanonicalVerb(bestKey)
	return canonical
}
