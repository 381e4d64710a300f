package providers

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicateProvider = errors.New("provider name already registered")
	ErrContractViolation = errors.New("provider violates the provider contract")
	ErrUnknownProvider   = errors.New("unknown provider")
)

// ProviderInfo Identity and declared capabilities of one registered provider.
// Immutable once registered.
type ProviderInfo struct {
	Name         string       `json:"name"`
	DisplayName  string       `json:"displayName"`
	Capabilities Capabilities `json:"capabilities"`

	impl Provider
}

func (info *ProviderInfo) Provider() Provider {
	return info.impl
}

// Registry Process-wide table of providers. Registration happens once at process
// start and is validated immediately, so a broken provider fails the deployment
// instead of the first run. Reads after start are lock-free in practice; the
// mutex only matters during startup.
type Registry struct {
	mu    sync.RWMutex
	table map[string]*ProviderInfo
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		table: make(map[string]*ProviderInfo),
	}
}

// Register Validates the implementation against its declared capability kind and
// adds it to the table. Fails loudly on duplicates and contract violations.
func (registry *Registry) Register(name, displayName string, capabilities Capabilities, impl Provider) error {
	if name == "" {
		return fmt.Errorf("%w: empty provider name", ErrContractViolation)
	}
	if impl == nil {
		return fmt.Errorf("%w: '%s' has no implementation", ErrContractViolation, name)
	}

	switch capabilities.Kind {
	case KindBrowser:
		if _, ok := impl.(BrowserProvider); !ok {
			return fmt.Errorf("%w: '%s' declares a browser session but implements no session setup/teardown", ErrContractViolation, name)
		}
	case KindAPI:
	default:
		return fmt.Errorf("%w: '%s' declares unknown capability kind '%s'", ErrContractViolation, name, capabilities.Kind)
	}

	if probed := impl.ProbeCapabilities(); probed.Kind != capabilities.Kind {
		return fmt.Errorf("%w: '%s' probes kind '%s' but was registered as '%s'", ErrContractViolation, name, probed.Kind, capabilities.Kind)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.table[name]; ok {
		return fmt.Errorf("%w: '%s'", ErrDuplicateProvider, name)
	}

	registry.table[name] = &ProviderInfo{
		Name:         name,
		DisplayName:  displayName,
		Capabilities: capabilities,
		impl:         impl,
	}
	registry.order = append(registry.order, name)

	return nil
}

func (registry *Registry) Lookup(name string) (*ProviderInfo, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	info, ok := registry.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownProvider, name)
	}
	return info, nil
}

// All Providers in registration order, for deterministic fan-out.
func (registry *Registry) All() []*ProviderInfo {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	infos := make([]*ProviderInfo, 0, len(registry.order))
	for _, name := range registry.order {
		infos = append(infos, registry.table[name])
	}
	return infos
}
