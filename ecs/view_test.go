package ecs_test

import (
	"testing"

	"github.com/plus3/tilecore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movable struct {
	ecs.Entity
	*Position
	*Velocity
}

type named struct {
	ecs.Entity
	*Name
	Health *Health `ecs:"optional"`
}

func TestViewRequiredComponents(t *testing.T) {
	storage, entities := newWorld(4)
	ecs.Attach(storage, entities[0], Position{X: 1})
	ecs.Attach(storage, entities[1], Position{X: 2})
	ecs.Attach(storage, entities[1], Velocity{DX: 1})
	ecs.Attach(storage, entities[3], Position{X: 4})
	ecs.Attach(storage, entities[3], Velocity{DX: 2})

	view := ecs.NewView[movable](storage)

	var rows []ecs.Entity
	for row := range view.Iter() {
		rows = append(rows, row.Entity)
		row.Position.X += row.Velocity.DX
	}
	assert.Equal(t, []ecs.Entity{entities[1], entities[3]}, rows)
	assert.Equal(t, 2, view.Count())

	pos, _ := ecs.Read[Position](storage, entities[3])
	assert.Equal(t, float32(6), pos.X)
	pos, _ = ecs.Read[Position](storage, entities[0])
	assert.Equal(t, float32(1), pos.X)
}

func TestViewOptionalComponents(t *testing.T) {
	storage, entities := newWorld(3)
	ecs.Attach(storage, entities[0], Name{Value: "a"})
	ecs.Attach(storage, entities[2], Name{Value: "c"})

	view := ecs.NewView[named](storage)

	// The Health column does not exist yet; optional fields stay nil.
	for row := range view.Iter() {
		assert.Nil(t, row.Health)
	}
	assert.Equal(t, 2, view.Count())

	ecs.Attach(storage, entities[2], Health{Current: 5})

	found := map[string]int{}
	for row := range view.Iter() {
		if row.Health != nil {
			found[row.Name.Value] = row.Health.Current
		}
	}
	assert.Equal(t, map[string]int{"c": 5}, found)
}

func TestViewMissingRequiredColumn(t *testing.T) {
	storage, entities := newWorld(2)
	ecs.Attach(storage, entities[0], Position{})

	view := ecs.NewView[movable](storage)
	assert.Equal(t, 0, view.Count())

	ecs.Attach(storage, entities[0], Velocity{})
	assert.Equal(t, 1, view.Count(), "columns created after the view are picked up")
}

func TestViewHoldsColumnsDuringIteration(t *testing.T) {
	storage, entities := newWorld(2)
	ecs.Attach(storage, entities[0], Position{})
	ecs.Attach(storage, entities[0], Velocity{})
	ecs.Attach(storage, entities[1], Position{})
	ecs.Attach(storage, entities[1], Velocity{})

	view := ecs.NewView[movable](storage)

	for range view.Iter() {
		err := recoverError(t, func() { ecs.BorrowRef[Position](storage) })
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
		break
	}

	// Breaking out of the loop released every guard.
	positions, ok := ecs.Borrow[Position](storage)
	require.True(t, ok)
	positions.Release()
}

func TestViewReleasesOnPartialAcquire(t *testing.T) {
	storage, entities := newWorld(1)
	ecs.Attach(storage, entities[0], Position{})
	ecs.Attach(storage, entities[0], Velocity{})

	velocities, _ := ecs.Borrow[Velocity](storage)
	view := ecs.NewView[movable](storage)

	err := recoverError(t, func() {
		for range view.Iter() {
		}
	})
	assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
	velocities.Release()

	// The Position guard taken before the conflict was given back.
	positions, ok := ecs.Borrow[Position](storage)
	require.True(t, ok)
	positions.Release()
}

func TestViewWith(t *testing.T) {
	storage, entities := newWorld(2)
	ecs.Attach(storage, entities[0], Position{X: 1})
	ecs.Attach(storage, entities[0], Velocity{DX: 3})
	ecs.Attach(storage, entities[1], Position{X: 1})

	view := ecs.NewView[movable](storage)

	ok := view.With(entities[0], func(row movable) {
		row.Position.X += row.Velocity.DX
	})
	assert.True(t, ok)
	assert.False(t, view.With(entities[1], func(movable) {
		t.Fatal("entity 1 has no velocity")
	}))

	pos, _ := ecs.Read[Position](storage, entities[0])
	assert.Equal(t, float32(4), pos.X)
}

func TestViewInvalidStruct(t *testing.T) {
	storage := ecs.NewStorage()

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct{ Position Position }](storage)
	})
	assert.Panics(t, func() {
		ecs.NewView[struct {
			A *Position
			B *Position
		}](storage)
	})
	assert.Panics(t, func() {
		ecs.NewView[struct {
			P *Position `ecs:"sometimes"`
		}](storage)
	})
}

type querySystem struct {
	Movers  ecs.Query[movable]
	Counter ecs.Singleton[Counter]
}

func (s *querySystem) Execute(frame *ecs.UpdateFrame) {
	counter := s.Counter.MustGetMut()
	defer counter.Release()
	counter.Get().Value = s.Movers.Count()
}

func TestQueryInit(t *testing.T) {
	var q ecs.Query[movable]
	assert.Panics(t, func() { q.Count() })

	storage, entities := newWorld(1)
	ecs.Attach(storage, entities[0], Position{})
	ecs.Attach(storage, entities[0], Velocity{})

	q.Init(storage)
	assert.Equal(t, 1, q.Count())
	assert.Equal(t, 1, ecs.NewQuery[movable](storage).Count())
}

func TestEach2SkipsPartialEntities(t *testing.T) {
	storage, entities := newWorld(3)
	ecs.Attach(storage, entities[0], Position{})
	ecs.Attach(storage, entities[1], Velocity{})
	ecs.Attach(storage, entities[2], Position{})
	ecs.Attach(storage, entities[2], Velocity{})

	var visited []ecs.Entity
	ecs.Each2(storage, func(e ecs.Entity, _ *Position, _ *Velocity) {
		visited = append(visited, e)
	})
	assert.Equal(t, []ecs.Entity{entities[2]}, visited)

	ecs.Each2(storage, func(ecs.Entity, *Position, *Health) {
		t.Fatal("no health column")
	})
}
