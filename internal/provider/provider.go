// Package provider abstracts option chain data sources behind a name.
//
// Names are matched case-insensitively. An empty name, "default", or a name
// no backend is registered under selects the default backend; the last case
// is logged at warn level and reported through Selection.FellBack so the
// backend that actually ran is always visible to the caller.
package provider

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"go.uber.org/zap"
)

// Provider fetches the option chain of one ticker. Failures should carry
// ErrCodeProviderFetchFailed or ErrCodeProviderNotSupported.
type Provider interface {
	FetchOptionChain(ctx context.Context, ticker string) (types.OptionChain, error)
}

// Info describes a registered backend.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Default     bool   `json:"default" yaml:"default"`
}

// Selection is the outcome of resolving a provider name.
type Selection struct {
	// Name is the backend that will run.
	Name string
	// Requested echoes the caller's selector.
	Requested string
	// FellBack is true when Requested named no registered backend.
	FellBack bool
	Provider Provider
}

type entry struct {
	provider    Provider
	description string
}

// Registry holds the named backends.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]entry
	defaultName string
	logger      *logger.Logger
}

// NewRegistry creates an empty registry whose default backend is defaultName.
func NewRegistry(defaultName string, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Registry{
		mu:          sync.RWMutex{},
		providers:   make(map[string]entry),
		defaultName: normalizeName(defaultName),
		logger:      log,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a backend under name.
func (r *Registry) Register(name, description string, p Provider) error {
	key := normalizeName(name)
	if key == "" || key == types.DefaultProvider {
		return errors.Newf(errors.ErrCodeInvalidParameter, "invalid provider name %q", name)
	}

	if p == nil {
		return errors.Newf(errors.ErrCodeInvalidParameter, "provider %s is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[key]; exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "provider %s already registered", key)
	}

	r.providers[key] = entry{provider: p, description: description}

	return nil
}

// Default returns the name of the default backend.
func (r *Registry) Default() string {
	return r.defaultName
}

// Resolve maps a selector to a backend, falling back to the default backend
// for unknown names. It fails only when the default itself is not registered.
func (r *Registry) Resolve(name string) (Selection, error) {
	requested := strings.TrimSpace(name)
	key := normalizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if key != "" && key != types.DefaultProvider {
		if e, ok := r.providers[key]; ok {
			return Selection{Name: key, Requested: requested, FellBack: false, Provider: e.provider}, nil
		}
	}

	e, ok := r.providers[r.defaultName]
	if !ok {
		return Selection{}, errors.Newf(errors.ErrCodeProviderNotRegistered, "default provider %s is not registered", r.defaultName)
	}

	fellBack := key != "" && key != types.DefaultProvider
	if fellBack {
		r.logger.Warn("Unknown provider, using default",
			zap.String("requested", requested),
			zap.String("provider", r.defaultName),
		)
	}

	return Selection{Name: r.defaultName, Requested: requested, FellBack: fellBack, Provider: e.provider}, nil
}

// List returns the registered backends sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.providers))
	for name, e := range r.providers {
		infos = append(infos, Info{Name: name, Description: e.description, Default: name == r.defaultName})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos
}
