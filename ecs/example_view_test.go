package ecs_test

import (
	"fmt"

	"github.com/plus3/tilecore/ecs"
)

// ExampleView joins columns by entity index. Embedded pointer fields are
// required, fields tagged `ecs:"optional"` may be nil, and an ecs.Entity field
// receives the row's entity.
func ExampleView() {
	storage := ecs.NewStorage()
	for i, name := range []string{"knight", "slime", "bat"} {
		e := storage.CreateEntity()
		ecs.Attach(storage, e, Name{Value: name})
		if i != 1 {
			ecs.Attach(storage, e, Health{Current: 10 * (i + 1), Max: 30})
		}
	}

	view := ecs.NewView[struct {
		ecs.Entity
		*Name
		Health *Health `ecs:"optional"`
	}](storage)

	for row := range view.Iter() {
		if row.Health == nil {
			fmt.Printf("%d %s: no health\n", row.Entity, row.Name.Value)
			continue
		}
		fmt.Printf("%d %s: %d/%d\n", row.Entity, row.Name.Value, row.Health.Current, row.Health.Max)
	}

	// Output:
	// 0 knight: 10/30
	// 1 slime: no health
	// 2 bat: 30/30
}

// ExampleCommands defers a structural change while a column is borrowed.
func ExampleCommands() {
	storage := ecs.NewStorage()
	ecs.Attach(storage, storage.CreateEntity(), Health{Current: 0, Max: 10})

	var commands ecs.Commands

	healths, _ := ecs.Borrow[Health](storage)
	for e, h := range healths.All() {
		if h.Current == 0 {
			commands.Attach(e, ecs.With(Tag("dead")))
		}
	}
	healths.Release()

	commands.Flush(storage)
	tag, _ := ecs.Read[Tag](storage, 0)
	fmt.Println(tag)

	// Output:
	// dead
}
