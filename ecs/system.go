package ecs

// System represents one behavior unit executed by the Scheduler.
// User-defined systems should implement this interface and can include Query and
// Singleton fields, which the Scheduler initializes on registration.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

type namedSystem struct {
	name string
	fn   SystemFunc
}

func (n *namedSystem) Execute(frame *UpdateFrame) {
	n.fn(frame)
}

// Named wraps fn as a System that reports name in scheduler stats and faults.
func Named(name string, fn func(frame *UpdateFrame)) System {
	return &namedSystem{name: name, fn: fn}
}
