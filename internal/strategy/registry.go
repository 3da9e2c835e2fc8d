package strategy

import (
	"sort"
	"sync"

	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
)

// Registry maps strategy ids to plugins. Lookup is id-exact: no trimming,
// case folding or prefix matching.
type Registry interface {
	Register(plugin Plugin) error
	Lookup(id string) (Plugin, error)
	IDs() []string
}

// RegistryV1 is the in-process plugin table, populated at start-up.
type RegistryV1 struct {
	plugins map[string]Plugin
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *RegistryV1 {
	return &RegistryV1{
		plugins: make(map[string]Plugin),
		mu:      sync.RWMutex{},
	}
}

// Register adds a plugin. Registering the same id twice fails.
func (r *RegistryV1) Register(plugin Plugin) error {
	if plugin.ID == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "Register: plugin id is empty")
	}

	if plugin.New == nil {
		return errors.Newf(errors.ErrCodeInvalidParameter, "Register: plugin %s has no factory", plugin.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[plugin.ID]; exists {
		return errors.Newf(errors.ErrCodePluginAlreadyRegistered, "Register: plugin %s already registered", plugin.ID)
	}

	r.plugins[plugin.ID] = plugin

	return nil
}

// Lookup returns the plugin registered under exactly id.
func (r *RegistryV1) Lookup(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, exists := r.plugins[id]
	if !exists {
		return Plugin{}, errors.Newf(errors.ErrCodePluginNotFound, "no plugin registered for strategy %s", id)
	}

	return plugin, nil
}

// IDs returns the registered ids in ascending order.
func (r *RegistryV1) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
