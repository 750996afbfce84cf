package ecs_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/tilecore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntity(t *testing.T) {
	storage := ecs.NewStorage()
	assert.Equal(t, 0, storage.EntityCount())

	for i := range 5 {
		e := storage.CreateEntity()
		assert.Equal(t, ecs.Entity(i), e)
		assert.Equal(t, i, e.Index())
	}
	assert.Equal(t, 5, storage.EntityCount())
}

func TestColumnGrowth(t *testing.T) {
	tests := []struct {
		before, after int
	}{
		{0, 1},
		{3, 0},
		{3, 4},
		{63, 2},
		{64, 130},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("before=%d,after=%d", tt.before, tt.after), func(t *testing.T) {
			storage, _ := newWorld(tt.before)
			if tt.before > 0 {
				ecs.Attach(storage, 0, Score(1))
			} else {
				e := storage.CreateEntity()
				ecs.Attach(storage, e, Score(1))
			}

			for range tt.after {
				storage.CreateEntity()
			}

			scores, ok := ecs.BorrowRef[Score](storage)
			require.True(t, ok)
			defer scores.Release()

			assert.Equal(t, storage.EntityCount(), scores.Len())
			assert.True(t, scores.Has(0))
			for i := 1; i < storage.EntityCount(); i++ {
				assert.False(t, scores.Has(ecs.Entity(i)), "entity %d", i)
			}
		})
	}
}

func TestLazyColumnBackFill(t *testing.T) {
	storage, entities := newWorld(100)

	ecs.Attach(storage, entities[70], Name{Value: "late"})

	names, ok := ecs.BorrowRef[Name](storage)
	require.True(t, ok)
	defer names.Release()

	assert.Equal(t, 100, names.Len())
	name, ok := names.Get(entities[70])
	require.True(t, ok)
	assert.Equal(t, "late", name.Value)

	_, ok = names.Get(entities[69])
	assert.False(t, ok)
}

func TestIndexAlignment(t *testing.T) {
	storage, entities := newWorld(3)

	ecs.Attach(storage, entities[0], Position{X: 1, Y: 1})
	ecs.Attach(storage, entities[1], Velocity{DX: 2, DY: 2})
	ecs.Attach(storage, entities[2], Position{X: 3, Y: 3})
	ecs.Attach(storage, entities[2], Velocity{DX: 4, DY: 4})

	positions, ok := ecs.BorrowRef[Position](storage)
	require.True(t, ok)
	defer positions.Release()
	velocities, ok := ecs.BorrowRef[Velocity](storage)
	require.True(t, ok)
	defer velocities.Release()

	assert.Equal(t, positions.Len(), velocities.Len())

	var joined []ecs.Entity
	for e, pos := range positions.All() {
		vel, ok := velocities.Get(e)
		if !ok {
			continue
		}
		joined = append(joined, e)
		assert.Equal(t, Position{X: 3, Y: 3}, *pos)
		assert.Equal(t, Velocity{DX: 4, DY: 4}, *vel)
	}
	assert.Equal(t, []ecs.Entity{entities[2]}, joined)
}

func TestPositionVelocityScenario(t *testing.T) {
	storage, entities := newWorld(2)
	ecs.Attach(storage, entities[0], Position{X: 0, Y: 0})
	ecs.Attach(storage, entities[0], Velocity{DX: 1, DY: 1})

	ecs.Each2(storage, func(_ ecs.Entity, pos *Position, vel *Velocity) {
		pos.X += vel.DX
		pos.Y += vel.DY
	})

	positions, ok := ecs.BorrowRef[Position](storage)
	require.True(t, ok)
	defer positions.Release()

	pos, ok := positions.Get(entities[0])
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 1}, *pos)

	_, ok = positions.Get(entities[1])
	assert.False(t, ok)
}

func TestAttachReplaces(t *testing.T) {
	storage, entities := newWorld(1)

	ecs.Attach(storage, entities[0], Health{Current: 10, Max: 100})
	ecs.Attach(storage, entities[0], Health{Current: 50, Max: 100})

	health, ok := ecs.Read[Health](storage, entities[0])
	require.True(t, ok)
	assert.Equal(t, 50, health.Current)

	stats := storage.CollectStats()
	assert.Equal(t, 1, stats.ComponentCount)
}

func TestDetach(t *testing.T) {
	storage, entities := newWorld(2)

	assert.False(t, ecs.Detach[Score](storage, entities[0]), "no column yet")

	ecs.Attach(storage, entities[0], Score(7))
	assert.True(t, ecs.Has[Score](storage, entities[0]))
	assert.True(t, ecs.Detach[Score](storage, entities[0]))
	assert.False(t, ecs.Has[Score](storage, entities[0]))
	assert.False(t, ecs.Detach[Score](storage, entities[0]))

	scores, ok := ecs.BorrowRef[Score](storage)
	require.True(t, ok)
	defer scores.Release()
	assert.Equal(t, 2, scores.Len(), "detach never shrinks a column")
}

func TestZeroSizedComponent(t *testing.T) {
	storage, entities := newWorld(3)
	ecs.Attach(storage, entities[1], PlayerController{})

	assert.False(t, ecs.Has[PlayerController](storage, entities[0]))
	assert.True(t, ecs.Has[PlayerController](storage, entities[1]))
	assert.False(t, ecs.Has[PlayerController](storage, entities[2]))
}

func TestBorrowUnknownColumn(t *testing.T) {
	storage, _ := newWorld(4)

	_, ok := ecs.Borrow[Position](storage)
	assert.False(t, ok)
	_, ok = ecs.BorrowRef[Position](storage)
	assert.False(t, ok)
	_, ok = ecs.Read[Position](storage, 0)
	assert.False(t, ok)
	assert.False(t, ecs.Has[Position](storage, 0))
}

func TestEntityOutOfRange(t *testing.T) {
	storage, _ := newWorld(2)

	assert.PanicsWithError(t, "ecs: entity 2 out of range (entity count 2)", func() {
		ecs.Attach(storage, 2, Score(1))
	})

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ecs.ErrEntityOutOfRange))
	}()
	ecs.Detach[Score](storage, 10)
}

func TestColumnMutSetAndClear(t *testing.T) {
	storage, entities := newWorld(3)
	ecs.Attach(storage, entities[0], Tag("a"))

	tags, ok := ecs.Borrow[Tag](storage)
	require.True(t, ok)

	tags.Set(entities[2], Tag("c"))
	assert.True(t, tags.Clear(entities[0]))
	assert.False(t, tags.Clear(entities[1]))

	var seen []Tag
	for _, tag := range tags.All() {
		seen = append(seen, *tag)
	}
	assert.Equal(t, []Tag{"c"}, seen)

	assert.Panics(t, func() { tags.Set(3, Tag("d")) })
	tags.Release()
}

func TestColumnTypesAndInspect(t *testing.T) {
	storage, entities := newWorld(2)
	ecs.Attach(storage, entities[0], Position{X: 1, Y: 2})
	ecs.Attach(storage, entities[1], Name{Value: "second"})
	ecs.Attach(storage, entities[0], Name{Value: "first"})

	assert.Equal(t, []reflect.Type{
		reflect.TypeFor[Position](),
		reflect.TypeFor[Name](),
	}, storage.ColumnTypes())

	assert.Equal(t, []reflect.Type{reflect.TypeFor[Name]()}, storage.ComponentTypesOf(entities[1]))

	storage.InspectEntity(entities[0], func(_ reflect.Type, component any) {
		if name, ok := component.(*Name); ok {
			name.Value = "renamed"
		}
	})

	name, ok := ecs.Read[Name](storage, entities[0])
	require.True(t, ok)
	assert.Equal(t, "renamed", name.Value)
}

func TestStorageStats(t *testing.T) {
	storage, entities := newWorld(4)

	stats := storage.CollectStats()
	assert.Equal(t, 4, stats.EntityCount)
	assert.Equal(t, 0, stats.ColumnCount)
	assert.Equal(t, 0, stats.ComponentCount)

	ecs.Attach(storage, entities[0], Position{})
	ecs.Attach(storage, entities[1], Position{})
	ecs.Attach(storage, entities[3], Score(3))

	positions, ok := ecs.Borrow[Position](storage)
	require.True(t, ok)
	stats = storage.CollectStats()
	positions.Release()

	assert.Equal(t, 2, stats.ColumnCount)
	assert.Equal(t, 3, stats.ComponentCount)
	require.Len(t, stats.Columns, 2)
	assert.Equal(t, ecs.ColumnStats{
		Type:    reflect.TypeFor[Position](),
		Len:     4,
		Present: 2,
		Access:  ecs.Exclusive,
	}, stats.Columns[0])
	assert.Equal(t, ecs.Unborrowed, stats.Columns[1].Access)
}
