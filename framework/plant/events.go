package plant

import "reflect"

// CreatedEvent is delivered to OnCreated subscribers after a top-level
// Create succeeds. Cached results, Build calls and auto-filled relations
// produce no event.
type CreatedEvent struct {
	Type      reflect.Type
	Variation string
	// Instance is a pointer to the built value.
	Instance any
}

// OnCreated subscribes fn to creation events. Subscribers run in
// subscription order, on the goroutine calling Create.
//
//	p.OnCreated(func(e plant.CreatedEvent) {
//	    log.Printf("built %s", e.Type)
//	})
func (p *Plant) OnCreated(fn func(CreatedEvent)) {
	if fn == nil {
		return
	}
	p.onCreated = append(p.onCreated, fn)
}

func (p *Plant) fireCreated(e CreatedEvent) {
	for _, fn := range p.onCreated {
		fn(e)
	}
}
