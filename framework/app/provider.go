package app

import (
	"reflect"

	"github.com/km-arc/go-plant/framework/plant"
)

// ProviderRegistry collects blueprint providers and sets each of them up
// exactly once against its Plant.
type ProviderRegistry struct {
	plant      *plant.Plant
	providers  []plant.Provider
	registered map[plant.Provider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to p.
func NewProviderRegistry(p *plant.Plant) *ProviderRegistry {
	return &ProviderRegistry{
		plant:      p,
		registered: make(map[plant.Provider]bool),
	}
}

// Register adds providers in order. A provider value seen before is
// skipped. After Boot, new providers are set up right away.
func (r *ProviderRegistry) Register(providers ...plant.Provider) error {
	var fresh []plant.Provider
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		// Function providers are not comparable and cannot be deduplicated
		if reflect.TypeOf(provider).Comparable() {
			if r.registered[provider] {
				continue
			}
			r.registered[provider] = true
		}
		r.providers = append(r.providers, provider)
		fresh = append(fresh, provider)
	}
	if r.booted && len(fresh) > 0 {
		return r.plant.Setup(fresh...)
	}
	return nil
}

// Boot sets up every provider registered so far. Calling it again is a
// no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	return r.plant.Setup(r.providers...)
}

// Booted returns true once Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []plant.Provider { return r.providers }
