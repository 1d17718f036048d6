package plant

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Provider contributes blueprints to a Plant during setup.
//
//	type PeopleBlueprints struct{}
//
//	func (PeopleBlueprints) SetupPlant(p *plant.Plant) error {
//	    return plant.DefinePropertiesOf[Person](p, plant.Attrs{"MiddleName": "Elaine"})
//	}
type Provider interface {
	SetupPlant(p *Plant) error
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(p *Plant) error

func (f ProviderFunc) SetupPlant(p *Plant) error { return f(p) }

// Setup runs every provider against p in order. A failing provider does
// not stop the others; all failures are returned together.
func (p *Plant) Setup(providers ...Provider) error {
	var result *multierror.Error
	for i, provider := range providers {
		if provider == nil {
			continue
		}
		if err := provider.SetupPlant(p); err != nil {
			result = multierror.Append(result, fmt.Errorf("provider %d (%T): %w", i, provider, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		p.logger.Error("blueprint setup failed", "errors", len(result.Errors))
		return err
	}
	p.logger.Debug("blueprint setup complete", "providers", len(providers))
	return nil
}
