package enum

import (
	"fmt"
	"reflect"
)

// registry maps an enum's concrete type to its string-to-value table. Types
// register their values through New at package init time.
var registry = map[reflect.Type]any{}

func typeOf[T comparable]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// New registers value under its string form and returns it, so enum values
// read as plain variable declarations.
func New[T comparable](value T) T {
	t := typeOf[T]()
	table, ok := registry[t].(map[string]T)
	if !ok {
		table = map[string]T{}
		registry[t] = table
	}

	table[reflect.ValueOf(value).String()] = value
	return value
}

// ToEnum resolves the string form of a registered value. Unregistered types
// and unknown values both fail.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	table, ok := registry[typeOf[T]()].(map[string]T)
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := table[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}
