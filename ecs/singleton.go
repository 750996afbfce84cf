package ecs

// Singleton is a typed handle to the T resource, usable as a system field.
// The Scheduler initializes Singleton fields during system registration.
type Singleton[T any] struct {
	resources *Resources
}

// NewSingleton creates a Singleton accessor for the given registry. If an
// initializer is provided it is added as the T resource, replacing any previous
// one. Without an initializer nothing is added.
func NewSingleton[T any](resources *Resources, initializer ...T) *Singleton[T] {
	if len(initializer) > 0 {
		AddResource(resources, initializer[0])
	}
	return &Singleton[T]{resources: resources}
}

// Init binds the Singleton to a registry.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(resources *Resources) {
	s.resources = resources
}

// Exists returns true if the T resource is present.
func (s *Singleton[T]) Exists() bool {
	return s.resources != nil && HasResource[T](s.resources)
}

// Get returns a shared guard over the resource, or false if it is not present.
func (s *Singleton[T]) Get() (*Ref[T], bool) {
	if s.resources == nil {
		return nil, false
	}
	return GetResource[T](s.resources)
}

// GetMut returns an exclusive guard over the resource, or false if it is not present.
func (s *Singleton[T]) GetMut() (*RefMut[T], bool) {
	if s.resources == nil {
		return nil, false
	}
	return GetResourceMut[T](s.resources)
}

func (s *Singleton[T]) MustGet() *Ref[T] {
	if s.resources == nil {
		panic("Singleton used before Init")
	}
	return MustGetResource[T](s.resources)
}

func (s *Singleton[T]) MustGetMut() *RefMut[T] {
	if s.resources == nil {
		panic("Singleton used before Init")
	}
	return MustGetResourceMut[T](s.resources)
}
