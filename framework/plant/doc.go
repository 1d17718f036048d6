// Package plant builds test fixtures from registered blueprints.
//
// # Overview
//
// A Plant holds per-type defaults ("blueprints"), named variations and
// post-build callbacks. Tests declare the defaults once and override only
// what a given test cares about:
//
//	p := plant.New()
//	plant.DefinePropertiesOf[House](p, plant.Attrs{"Color": "blue", "SquareFoot": 50})
//	plant.DefinePropertiesOf[Person](p, plant.Attrs{"FirstName": "Leo"})
//
//	person, err := plant.Create[Person](p, plant.With(plant.Attrs{"LastName": "Smith"}))
//	// person.HouseWhereILive is a *House built from House's blueprint
//
// # Strategies
//
// Property injection allocates a zero T and assigns attributes by field
// name. Constructor injection calls a declared constructor; attributes are
// matched to parameter names ignoring case, so declaration order does not
// matter:
//
//	plant.DefineConstructionOf[Book](p, plant.Ctor(NewBook, "author", "publisher"),
//	    plant.Attrs{"Publisher": "Tor", "Author": "Robert Jordan"})
//
// # Deferred values
//
// Lazy values run when the attribute is assigned. Sequence values also get
// the type's counter, which advances once per population pass:
//
//	plant.Attrs{
//	    "MiddleName": plant.Lazy(func() string { return current }),
//	    "FirstName":  plant.Sequence(func(i int) string { return "FirstName" + strconv.Itoa(i) }),
//	}
//
// # Build order
//
//  1. Return the cached instance for (T, variation) if there is one.
//  2. Merge defaults with overrides, overrides winning.
//  3. Instantiate and populate.
//  4. Auto-fill nil pointer fields whose element type is registered.
//  5. Apply the variation.
//  6. Run the type callback, then the variation callback.
//  7. Notify OnCreated subscribers (Create only, not Build).
//  8. Cache the instance.
//
// Because instances are cached per (T, variation), two fixtures that refer
// to the same registered type share one instance of it. Forget and Flush
// clear the cache.
//
// # Bulk setup
//
//	err := p.Setup(PeopleBlueprints{}, plant.ProviderFunc(func(p *plant.Plant) error {
//	    return plant.DefineVariationOf[Person](p, "admin", plant.Attrs{"Role": "admin"})
//	}))
package plant
