package ecs

import "iter"

// Query is the system-field form of a View. The Scheduler initializes Query
// fields during system registration, so a system can declare the rows it
// works on and range over them in Execute.
type Query[T any] struct {
	view *View[T]
}

// NewQuery creates a Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	return &Query[T]{view: NewView[T](storage)}
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
}

// Iter returns an iterator over the matching rows.
// Panics if the Query was never initialized.
func (q *Query[T]) Iter() iter.Seq[T] {
	if q.view == nil {
		panic("Query.Iter() called before Query.Init()")
	}
	return q.view.Iter()
}

// With runs fn on the row of a single entity.
func (q *Query[T]) With(e Entity, fn func(T)) bool {
	if q.view == nil {
		panic("Query.With() called before Query.Init()")
	}
	return q.view.With(e, fn)
}

// Count returns the number of matching rows.
func (q *Query[T]) Count() int {
	if q.view == nil {
		panic("Query.Count() called before Query.Init()")
	}
	return q.view.Count()
}

// Each2 calls fn for every entity that has both an A and a B, in entity order.
// Both columns are held exclusively while it runs. Nothing happens if either
// column does not exist yet.
func Each2[A, B any](s *Storage, fn func(e Entity, a *A, b *B)) {
	as, ok := Borrow[A](s)
	if !ok {
		return
	}
	defer as.Release()

	bs, ok := Borrow[B](s)
	if !ok {
		return
	}
	defer bs.Release()

	for e, a := range as.All() {
		if b, ok := bs.Get(e); ok {
			fn(e, a, b)
		}
	}
}
