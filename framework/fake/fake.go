// Package fake provides ready-made deferred values for common fixture
// attributes.
//
//	plant.DefinePropertiesOf[User](p, plant.Attrs{
//	    "ID":    fake.UUID(),
//	    "Email": fake.Email("user", "example.com"),
//	})
package fake

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/km-arc/go-plant/framework/plant"
)

// UUID produces a random version 4 UUID string per build.
func UUID() plant.LazyValue[string] {
	return plant.Lazy(uuid.NewString)
}

// UUIDValue is UUID for attributes typed uuid.UUID.
func UUIDValue() plant.LazyValue[uuid.UUID] {
	return plant.Lazy(uuid.New)
}

// Numbered produces prefix followed by the sequence counter: "user0", "user1", ...
func Numbered(prefix string) plant.SequenceValue[string] {
	return plant.Sequence(func(i int) string { return fmt.Sprintf("%s%d", prefix, i) })
}

// Email produces local+counter@domain: "user0@example.com", ...
func Email(local, domain string) plant.SequenceValue[string] {
	return plant.Sequence(func(i int) string { return fmt.Sprintf("%s%d@%s", local, i, domain) })
}

// Counter produces the sequence counter offset by start.
func Counter(start int) plant.SequenceValue[int] {
	return plant.Sequence(func(i int) int { return start + i })
}

// OneOf cycles through values using the sequence counter.
func OneOf[V any](values ...V) plant.SequenceValue[V] {
	if len(values) == 0 {
		panic("fake: OneOf needs at least one value")
	}
	return plant.Sequence(func(i int) V { return values[i%len(values)] })
}
