package reflectutil

import "reflect"

// PartialEqual compares only the non-zero fields of a against b. Tests use
// it to assert on the fields they care about without enumerating the rest.
func PartialEqual[T any](a T, b T) bool {
	va := reflect.ValueOf(a).Elem()
	vb := reflect.ValueOf(b).Elem()

	for i := 0; i < va.NumField(); i++ {
		fieldA := va.Field(i)
		fieldB := vb.Field(i)

		if fieldA.IsZero() {
			continue
		}
		if fieldA.Interface() != fieldB.Interface() {
			return false
		}
	}
	return true
}
