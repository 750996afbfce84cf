package ecs_test

import (
	"testing"
	"time"

	"github.com/plus3/tilecore/ecs"
)

func BenchmarkCreateEntity(b *testing.B) {
	storage := ecs.NewStorage()
	ecs.Attach(storage, storage.CreateEntity(), Position{})
	ecs.Attach(storage, 0, Velocity{})
	ecs.Attach(storage, 0, Health{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.CreateEntity()
	}
}

func BenchmarkAttach(b *testing.B) {
	storage, entities := newWorld(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.Attach(storage, entities[i%len(entities)], Position{X: float32(i)})
	}
}

func BenchmarkColumnIteration(b *testing.B) {
	storage, entities := newWorld(10000)
	for _, e := range entities {
		ecs.Attach(storage, e, Position{})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		positions, _ := ecs.Borrow[Position](storage)
		for _, pos := range positions.All() {
			pos.X++
		}
		positions.Release()
	}
}

func BenchmarkEach2(b *testing.B) {
	storage, entities := newWorld(10000)
	for i, e := range entities {
		ecs.Attach(storage, e, Position{})
		if i%2 == 0 {
			ecs.Attach(storage, e, Velocity{DX: 1, DY: 1})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.Each2(storage, func(_ ecs.Entity, pos *Position, vel *Velocity) {
			pos.X += vel.DX
			pos.Y += vel.DY
		})
	}
}

func BenchmarkViewIteration(b *testing.B) {
	storage, entities := newWorld(10000)
	for i, e := range entities {
		ecs.Attach(storage, e, Position{})
		if i%2 == 0 {
			ecs.Attach(storage, e, Velocity{DX: 1, DY: 1})
		}
	}
	view := ecs.NewView[movable](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for row := range view.Iter() {
			row.Position.X += row.Velocity.DX
		}
	}
}

func BenchmarkResourceAccess(b *testing.B) {
	resources := ecs.NewResources()
	ecs.AddResource(resources, Counter{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		counter, _ := ecs.GetResourceMut[Counter](resources)
		counter.Get().Value++
		counter.Release()
	}
}

func BenchmarkRunFrame(b *testing.B) {
	storage, entities := newWorld(1000)
	for _, e := range entities {
		ecs.Attach(storage, e, Position{})
		ecs.Attach(storage, e, Velocity{DX: 1})
	}
	scheduler := ecs.NewScheduler(storage, ecs.NewResources())
	scheduler.RegisterFixedSystem(&MovementSystem{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scheduler.RunFrame(16*time.Millisecond, nil, nil)
	}
}
