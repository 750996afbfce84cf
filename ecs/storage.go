package ecs

import (
	"reflect"
)

// Storage is the entity/component table. It owns the entity count and one
// column per component type, and keeps every column's length equal to the
// entity count. Entity i is slot i of every column; that index alignment is the
// only relationship between an entity's components.
type Storage struct {
	count   int
	columns *typeStore[iComponentStorage]
}

// NewStorage creates an empty table.
func NewStorage() *Storage {
	return &Storage{
		columns: newTypeStore[iComponentStorage](),
	}
}

// EntityCount returns the number of entities created so far.
func (s *Storage) EntityCount() int {
	return s.count
}

// CreateEntity appends an absent slot to every column and returns the new handle.
// It faults if any column is borrowed, since every column grows.
func (s *Storage) CreateEntity() Entity {
	for t, col := range s.columns.all() {
		col.access().assertFree(t)
	}

	for _, col := range s.columns.all() {
		col.pushNone()
	}

	entity := Entity(s.count)
	s.count++
	return entity
}

// ColumnTypes returns the component types that have a column, in creation order.
func (s *Storage) ColumnTypes() []reflect.Type {
	types := make([]reflect.Type, 0, s.columns.Len())
	for t := range s.columns.all() {
		types = append(types, t)
	}
	return types
}

// ComponentTypesOf returns the types of the components entity e currently has.
func (s *Storage) ComponentTypesOf(e Entity) []reflect.Type {
	s.checkEntity(e)

	var types []reflect.Type
	for t, col := range s.columns.all() {
		if col.Has(e.Index()) {
			types = append(types, t)
		}
	}
	return types
}

// InspectEntity calls fn with a pointer (as any) to each component entity e has.
// Each column is held exclusively while fn runs, so fn may modify the component
// through reflection.
func (s *Storage) InspectEntity(e Entity, fn func(t reflect.Type, component any)) {
	s.checkEntity(e)

	for t, col := range s.columns.all() {
		if !col.Has(e.Index()) {
			continue
		}
		func() {
			g := newGuard(col.access(), t, Exclusive)
			defer g.Release()
			fn(t, col.valueAt(e.Index()))
		}()
	}
}

// outstandingBorrow reports the first column that still has a guard outstanding.
func (s *Storage) outstandingBorrow() (reflect.Type, AccessMode, bool) {
	for t, col := range s.columns.all() {
		if mode := col.access().mode(); mode != Unborrowed {
			return t, mode, true
		}
	}
	return nil, Unborrowed, false
}

func (s *Storage) checkEntity(e Entity) {
	if e.Index() >= s.count {
		panic(&EntityRangeError{Entity: e, Count: s.count})
	}
}

func ensureColumn[T any](s *Storage) *column[T] {
	return ensureContainer[T, *column[T]](s.columns, func() *column[T] {
		return newColumn[T](s.count)
	})
}

func findColumn[T any](s *Storage) (*column[T], bool) {
	return findContainer[T, *column[T]](s.columns)
}

// Attach gives entity e the component value, creating the column for T on first
// use. A value already in the slot is replaced. Attaching to an entity that was
// never created, or while the column is borrowed, faults.
func Attach[T any](s *Storage, e Entity, value T) {
	s.checkEntity(e)
	col := ensureColumn[T](s)
	col.cell.assertFree(reflect.TypeFor[T]())
	col.set(e.Index(), value)
}

// Detach removes the T of entity e and reports whether it had one.
func Detach[T any](s *Storage, e Entity) bool {
	s.checkEntity(e)
	col, ok := findColumn[T](s)
	if !ok {
		return false
	}
	col.cell.assertFree(reflect.TypeFor[T]())
	return col.clear(e.Index())
}

// Has reports whether entity e has a T. It faults if the column is held exclusively.
func Has[T any](s *Storage, e Entity) bool {
	s.checkEntity(e)
	col, ok := findColumn[T](s)
	if !ok {
		return false
	}
	if col.cell.mode() == Exclusive {
		panic(&BorrowError{Type: reflect.TypeFor[T](), Requested: Shared, Held: Exclusive, Outstanding: 1})
	}
	return col.Has(e.Index())
}

// Read returns a copy of the T of entity e under a short-lived shared guard.
func Read[T any](s *Storage, e Entity) (T, bool) {
	s.checkEntity(e)
	ref, ok := BorrowRef[T](s)
	if !ok {
		var zero T
		return zero, false
	}
	defer ref.Release()

	ptr, ok := ref.Get(e)
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr, true
}

// Borrow returns an exclusive guard over the column of T, or false if no T has
// ever been attached. The caller must Release the guard.
func Borrow[T any](s *Storage) (*ColumnMut[T], bool) {
	col, ok := findColumn[T](s)
	if !ok {
		return nil, false
	}
	return &ColumnMut[T]{ColumnRef: newColumnRef(col, Exclusive)}, true
}

// BorrowRef returns a shared guard over the column of T, or false if no T has
// ever been attached. Any number of shared guards may coexist.
func BorrowRef[T any](s *Storage) (*ColumnRef[T], bool) {
	col, ok := findColumn[T](s)
	if !ok {
		return nil, false
	}
	ref := newColumnRef(col, Shared)
	return &ref, true
}
