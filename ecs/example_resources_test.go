package ecs_test

import (
	"fmt"

	"github.com/plus3/tilecore/ecs"
)

type Camera struct {
	X, Y float32
}

// ExampleResources shows the resource registry. A resource exists only once it
// has been added; lookups of anything else report absence.
func ExampleResources() {
	resources := ecs.NewResources()

	_, ok := ecs.GetResource[Camera](resources)
	fmt.Println("camera present:", ok)

	ecs.AddResource(resources, Camera{X: 8, Y: 8})

	camera := ecs.MustGetResourceMut[Camera](resources)
	camera.Get().X += 16
	camera.Release()

	view := ecs.MustGetResource[Camera](resources)
	fmt.Printf("camera at (%.0f, %.0f)\n", view.Get().X, view.Get().Y)
	view.Release()

	old, _ := ecs.RemoveResource[Camera](resources)
	fmt.Println("removed:", old, "remaining:", resources.Len())

	// Output:
	// camera present: false
	// camera at (24, 8)
	// removed: {24 8} remaining: 0
}

// ExampleSingleton shows the typed handle a system can hold as a field.
func ExampleSingleton() {
	resources := ecs.NewResources()
	score := ecs.NewSingleton(resources, Score(0))

	for range 3 {
		s := score.MustGetMut()
		*s.Get() += 10
		s.Release()
	}

	s := score.MustGet()
	fmt.Println("score:", *s.Get())
	s.Release()

	// Output:
	// score: 30
}
