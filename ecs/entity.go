package ecs

// Entity is a dense index into every component column. Handles are assigned in
// creation order starting at zero and stay valid for the lifetime of the Storage.
type Entity uint32

// Index returns the column slot addressed by the entity.
func (e Entity) Index() int {
	return int(e)
}
