package ecs

// Commands provides a buffer for deferred structural changes. Creating entities
// or attaching components needs every affected column to be unborrowed, which a
// system iterating a column cannot guarantee; it queues the change instead and
// the Scheduler flushes the buffer after the system returns.
type Commands struct {
	spawns   [][]ComponentValue
	attaches []attachCommand
	detaches []detachCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// ComponentValue attaches one component to an entity. Build it with With.
type ComponentValue func(s *Storage, e Entity)

// ComponentRemoval detaches one component type from an entity. Build it with Without.
type ComponentRemoval func(s *Storage, e Entity)

// With wraps a component value for deferred attachment.
func With[T any](value T) ComponentValue {
	return func(s *Storage, e Entity) {
		Attach(s, e, value)
	}
}

// Without names a component type for deferred removal.
func Without[T any]() ComponentRemoval {
	return func(s *Storage, e Entity) {
		Detach[T](s, e)
	}
}

type attachCommand struct {
	entity     Entity
	components []ComponentValue
}

type detachCommand struct {
	entity   Entity
	removals []ComponentRemoval
}

// Spawn queues the creation of an entity with the given components.
func (c *Commands) Spawn(components ...ComponentValue) {
	c.spawns = append(c.spawns, components)
}

// Attach queues attaching components to an existing entity.
func (c *Commands) Attach(entity Entity, components ...ComponentValue) {
	c.attaches = append(c.attaches, attachCommand{entity: entity, components: components})
}

// Detach queues removing component types from an entity.
func (c *Commands) Detach(entity Entity, removals ...ComponentRemoval) {
	c.detaches = append(c.detaches, detachCommand{entity: entity, removals: removals})
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.attaches) + len(c.detaches) + len(c.defers)
}

// Flush applies all queued operations to storage in the order detaches,
// attaches, spawns, defers, and resets the buffer. Operations queued while
// flushing, typically from a deferred function, are applied in a further round
// before Flush returns.
func (c *Commands) Flush(storage *Storage) {
	for c.Len() > 0 {
		detaches, attaches, spawns, defers := c.detaches, c.attaches, c.spawns, c.defers
		c.detaches, c.attaches, c.spawns, c.defers = nil, nil, nil, nil

		for _, cmd := range detaches {
			for _, remove := range cmd.removals {
				remove(storage, cmd.entity)
			}
		}

		for _, cmd := range attaches {
			for _, attach := range cmd.components {
				attach(storage, cmd.entity)
			}
		}

		for _, components := range spawns {
			entity := storage.CreateEntity()
			for _, attach := range components {
				attach(storage, entity)
			}
		}

		for _, fn := range defers {
			fn()
		}

		// Hand the drained buffers back for reuse unless this round queued more.
		if c.detaches == nil {
			c.detaches = detaches[:0]
		}
		if c.attaches == nil {
			c.attaches = attaches[:0]
		}
		if c.spawns == nil {
			c.spawns = spawns[:0]
		}
		if c.defers == nil {
			c.defers = defers[:0]
		}
	}
}
