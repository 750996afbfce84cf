package ecs_test

import (
	"fmt"
	"time"

	"github.com/plus3/tilecore/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type PhysicsSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*Speed
	}]
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Iter() {
		entity.Transform.X += entity.Speed.DX * frame.Seconds()
		entity.Transform.Y += entity.Speed.DY * frame.Seconds()
	}
}

type TickCount struct {
	Ticks int
}

type ReportSystem struct {
	Count ecs.Singleton[TickCount]
}

func (s *ReportSystem) Execute(frame *ecs.UpdateFrame) {
	count := s.Count.MustGet()
	defer count.Release()
	fmt.Printf("frame of %s ran %d fixed ticks so far\n", frame.DeltaTime, count.Get().Ticks)
}

// ExampleScheduler demonstrates the two system groups. Fixed systems run once
// per whole simulation interval that has accumulated; render systems run once
// per host frame after them. Query and Singleton fields are initialized when a
// system is registered.
func ExampleScheduler() {
	storage := ecs.NewStorage()
	resources := ecs.NewResources()
	ecs.AddResource(resources, TickCount{})

	ship := storage.CreateEntity()
	ecs.Attach(storage, ship, Transform{})
	ecs.Attach(storage, ship, Speed{DX: 50})

	scheduler := ecs.NewScheduler(storage, resources, ecs.WithFixedInterval(20*time.Millisecond))
	scheduler.RegisterFixedSystem(&PhysicsSystem{})
	scheduler.RegisterFixedSystem(ecs.Named("count", func(frame *ecs.UpdateFrame) {
		count := ecs.MustGetResourceMut[TickCount](frame.Resources)
		defer count.Release()
		count.Get().Ticks++
	}))
	scheduler.RegisterRenderSystem(&ReportSystem{})

	scheduler.RunFrame(50*time.Millisecond, nil, nil)
	scheduler.RunFrame(10*time.Millisecond, nil, nil)

	transform, _ := ecs.Read[Transform](storage, ship)
	fmt.Printf("ship moved to x=%.1f\n", transform.X)

	// Output:
	// frame of 50ms ran 2 fixed ticks so far
	// frame of 10ms ran 3 fixed ticks so far
	// ship moved to x=3.0
}
