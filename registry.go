package blocks

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/blocks/internal/metrics"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. nil falls back to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetricsNamespace enables Prometheus instrumentation under the
// given namespace. An empty namespace leaves the registry
// uninstrumented.
func WithMetricsNamespace(namespace string) Option {
	return func(r *Registry) { r.namespace = namespace }
}

// Registry holds plugin instances and keeps three views of them
// mutually consistent: insertion order, a unique-name index, and one
// bucket per category label. A single lock guards all three, so every
// operation observes them in agreement.
type Registry struct {
	mu         sync.RWMutex
	plugins    []Plugin
	byName     map[string]Plugin
	byCategory map[string][]Plugin

	logger    *zap.Logger
	collector *metrics.Collector
	namespace string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		byName:     make(map[string]Plugin),
		byCategory: make(map[string][]Plugin),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.logger = r.logger.With(zap.String("component", "plugin_registry"))
	if r.namespace != "" {
		r.collector = metrics.NewCollector(r.namespace, r.logger)
	}
	return r
}

// Register adds a plugin under the given name and indexes it by every
// category in its descriptor chain. An empty name falls back to the
// descriptor name. Registering an already-taken name fails with
// ErrAlreadyRegistered and leaves the registry unchanged; the same
// instance may be registered under several distinct names.
func (r *Registry) Register(name string, p Plugin) error {
	if p == nil {
		r.collector.RecordRegistration("invalid")
		return fmt.Errorf("register: %w", ErrMissingTarget)
	}
	desc := p.Descriptor()
	if name == "" && desc != nil {
		name = desc.Name
	}
	if name == "" {
		r.collector.RecordRegistration("invalid")
		return fmt.Errorf("register: plugin name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		r.collector.RecordRegistration("duplicate")
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	r.plugins = append(r.plugins, p)
	r.byName[name] = p
	categories := desc.EffectiveCategories()
	for _, c := range categories {
		r.applyLocked(p, c)
	}

	r.collector.RecordRegistration("ok")
	r.collector.SetPluginCount(len(r.plugins))
	r.collector.SetCategoryCount(len(r.byCategory))
	r.logger.Info("plugin registered",
		zap.String("name", name),
		zap.Strings("categories", categories))
	return nil
}

// ApplyCategories adds the plugin to the bucket of each given label,
// creating buckets as needed. Labels the plugin already carries are
// skipped, so applying the same labels twice is a no-op. The plugin
// does not need to be registered first. Labels are taken verbatim; dot
// composition is a filter-time concern.
func (r *Registry) ApplyCategories(p Plugin, categories ...string) error {
	if p == nil {
		return fmt.Errorf("apply categories: %w", ErrMissingTarget)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range categories {
		if r.applyLocked(p, c) {
			r.logger.Debug("category applied", zap.String("category", c))
		}
	}
	r.collector.SetCategoryCount(len(r.byCategory))
	return nil
}

// applyLocked appends p to the bucket for category c unless already
// present, and reports whether the bucket changed. Caller holds the
// write lock.
func (r *Registry) applyLocked(p Plugin, c string) bool {
	bucket := r.byCategory[c]
	if containsPlugin(bucket, p) {
		return false
	}
	r.byCategory[c] = append(bucket, p)
	return true
}

// All returns the registered plugins in insertion order. Disabled
// plugins are omitted unless includeDisabled is set.
func (r *Registry) All(includeDisabled bool) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		if includeDisabled || p.Enabled() {
			result = append(result, p)
		}
	}
	return result
}

// Categories returns the sorted set of labels that currently have a
// bucket. A label whose members are all disabled still counts.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byCategory))
	for c := range r.byCategory {
		result = append(result, c)
	}
	sort.Strings(result)
	return result
}

// FilterByCategories returns the plugins carrying every requested
// label. Each element may compose several labels with dots:
// "text_filter.markdown" requires both text_filter and markdown. A
// label with no registered plugins is ignored rather than failing the
// whole request; when none of the requested labels has a bucket the
// result is empty.
func (r *Registry) FilterByCategories(categories []string, includeDisabled bool) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.collector.RecordFilter()

	var buckets [][]Plugin
	for _, label := range splitLabels(categories) {
		if bucket := r.byCategory[label]; len(bucket) > 0 {
			buckets = append(buckets, bucket)
		}
	}
	if len(buckets) == 0 {
		return nil
	}

	result := make([]Plugin, 0, len(buckets[0]))
	for _, p := range buckets[0] {
		if !includeDisabled && !p.Enabled() {
			continue
		}
		inAll := true
		for _, bucket := range buckets[1:] {
			if !containsPlugin(bucket, p) {
				inAll = false
				break
			}
		}
		if inAll {
			result = append(result, p)
		}
	}
	return result
}

// GetByName retrieves a plugin by its registered name. It fails with
// ErrNotFound for unknown names, and with ErrDisabled when the plugin
// exists but is disabled and includeDisabled is false.
func (r *Registry) GetByName(name string, includeDisabled bool) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[name]
	if !ok {
		r.collector.RecordLookup("miss")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if !includeDisabled && !p.Enabled() {
		r.collector.RecordLookup("disabled")
		return nil, fmt.Errorf("%w: %s", ErrDisabled, name)
	}
	r.collector.RecordLookup("hit")
	return p, nil
}

// Enable enables the named plugin. Enabling an enabled plugin is a
// no-op; an unknown name fails with ErrNotFound.
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	p.Enable()
	r.logger.Info("plugin enabled", zap.String("name", name))
	return nil
}

// Disable disables the named plugin. Disabling a disabled plugin is a
// no-op; an unknown name fails with ErrNotFound.
func (r *Registry) Disable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	p.Disable()
	r.logger.Info("plugin disabled", zap.String("name", name))
	return nil
}

// Count returns the number of registered plugins, disabled included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromModule instantiates and registers every type the module
// defines itself, skipping re-exports pulled in with Include. Each new
// instance is additionally tagged with asCategories. Loading stops at
// the first failing definition; the instances registered before the
// failure are returned alongside the error.
func (r *Registry) LoadFromModule(m *Module, asCategories ...string) ([]Plugin, error) {
	if m == nil {
		return nil, fmt.Errorf("load module: %w", ErrMissingTarget)
	}

	start := time.Now()
	var loaded []Plugin
	for _, def := range m.defs {
		if def.definedIn != m.name {
			continue // re-export, not defined here
		}
		if def.Descriptor == nil || def.New == nil {
			r.collector.RecordModuleLoad("error", time.Since(start))
			return loaded, fmt.Errorf("load module %s: definition missing descriptor or factory", m.name)
		}
		p := def.New()
		if p == nil {
			r.collector.RecordModuleLoad("error", time.Since(start))
			return loaded, fmt.Errorf("load module %s: factory for %s returned nil", m.name, def.Descriptor.Name)
		}
		if err := r.Register(def.Descriptor.Name, p); err != nil {
			r.collector.RecordModuleLoad("error", time.Since(start))
			return loaded, fmt.Errorf("load module %s: %w", m.name, err)
		}
		if err := r.ApplyCategories(p, asCategories...); err != nil {
			r.collector.RecordModuleLoad("error", time.Since(start))
			return loaded, fmt.Errorf("load module %s: %w", m.name, err)
		}
		loaded = append(loaded, p)
	}

	r.collector.RecordModuleLoad("ok", time.Since(start))
	r.logger.Info("module loaded",
		zap.String("module", m.name),
		zap.Int("plugins", len(loaded)))
	return loaded, nil
}

// splitLabels flattens the requested labels, splitting dot-composed
// elements into their parts.
func splitLabels(categories []string) []string {
	labels := make([]string, 0, len(categories))
	for _, c := range categories {
		labels = append(labels, strings.Split(c, ".")...)
	}
	return labels
}

func containsPlugin(bucket []Plugin, p Plugin) bool {
	for _, existing := range bucket {
		if existing == p {
			return true
		}
	}
	return false
}
