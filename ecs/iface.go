package ecs

import (
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// typeKey reduces a reflect.Type to the address of its runtime type descriptor.
// Descriptors are never moved or freed, so the address is a stable identity for
// the lifetime of the process.
func typeKey(t reflect.Type) uint64 {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return uint64(uintptr(ptr))
}
