package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field of a component or resource type.
// Fields of embedded structs are listed as if they were declared on the outer
// type, so Path may be longer than one.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Path      []int
	IsPointer bool
}

// Kind is the kind of the field after dereferencing a pointer.
func (f FieldInfo) Kind() reflect.Kind {
	return f.Type.Kind()
}

// IsScalar reports whether the inspector can edit the field in place.
func (f FieldInfo) IsScalar() bool {
	return isScalarKind(f.Type.Kind())
}

// Value returns the field of owner, which must be of the type the field was
// collected from.
func (f FieldInfo) Value(owner reflect.Value) reflect.Value {
	return owner.FieldByIndex(f.Path)
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// ReflectionCache memoizes the exported fields of struct types. Non-struct
// types have no fields and are rendered as a single value.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		fields = appendFields(fields, t, nil)
	}
	actual, _ := rc.fields.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

func appendFields(fields []FieldInfo, t reflect.Type, prefix []int) []FieldInfo {
	for i := range t.NumField() {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		// Embedded structs are flattened even when unexported, as long as the
		// promoted fields are exported.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			fields = appendFields(fields, field.Type, path)
			continue
		}
		if !field.IsExported() {
			continue
		}

		fieldType := field.Type
		isPointer := fieldType.Kind() == reflect.Ptr
		if isPointer {
			fieldType = fieldType.Elem()
		}

		fields = append(fields, FieldInfo{
			Name:      field.Name,
			Type:      fieldType,
			Path:      path,
			IsPointer: isPointer,
		})
	}
	return fields
}

var globalReflectionCache = NewReflectionCache()
