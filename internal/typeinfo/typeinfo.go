package typeinfo

import (
	"fmt"
	"reflect"

	"github.com/toyz/vessel/internal/models"
)

// TagKey is the struct tag consulted during field scanning. A value of "-"
// excludes the field from injection.
const TagKey = "vessel"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Of returns the reflect.Type of T, including interface types
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Normalize turns a named struct type into a pointer to it so that Foo and
// *Foo identify the same component. Other types are returned unchanged.
func Normalize(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Struct {
		return reflect.PointerTo(t)
	}
	return t
}

// IsInjectable reports whether t is something the container can construct or
// receive from a factory: a pointer to a named struct, or a named interface
// with at least one method.
func IsInjectable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Ptr:
		elem := t.Elem()
		return elem.Kind() == reflect.Struct && elem.Name() != ""
	case reflect.Interface:
		return t.Name() != "" && t.NumMethod() > 0 && t != errorType
	default:
		return false
	}
}

// IsConstructible reports whether t is a pointer to a named struct
func IsConstructible(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct && t.Elem().Name() != ""
}

// FieldDependencies returns the injectable exported fields of the struct
// behind t, in declaration order. Embedded fields are not injection points.
func FieldDependencies(t reflect.Type) []models.Dependency {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var deps []models.Dependency
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous || !field.IsExported() {
			continue
		}
		if field.Tag.Get(TagKey) == "-" {
			continue
		}
		if !IsInjectable(field.Type) {
			continue
		}
		deps = append(deps, models.Dependency{
			Name:  field.Name,
			Index: i,
			Type:  field.Type,
		})
	}
	return deps
}

// ParamDependencies returns the parameters of a method obtained from
// reflect.Type.MethodByName, skipping the receiver. Non-injectable parameters
// are reported as an error since nothing could supply them.
func ParamDependencies(method reflect.Method) ([]models.Dependency, error) {
	mt := method.Type
	deps := make([]models.Dependency, 0, mt.NumIn()-1)
	for i := 1; i < mt.NumIn(); i++ {
		in := mt.In(i)
		if !IsInjectable(in) {
			return nil, fmt.Errorf("parameter %d of %s has non-injectable type %s", i-1, method.Name, in)
		}
		deps = append(deps, models.Dependency{
			Name:  fmt.Sprintf("arg%d", i-1),
			Index: i - 1,
			Type:  in,
		})
	}
	return deps, nil
}

// IsNil reports whether v is nil or a typed nil
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// Names renders a list of types for diagnostics
func Names(types []reflect.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
