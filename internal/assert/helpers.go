// Package assert holds small test helpers shared by rbridge packages
package assert

import (
	"errors"
	"reflect"
	"testing"
)

// Expect is simple testing function which raises error if condition is not met
func Expect(t *testing.T, to bool, eformat string, args ...interface{}) {
	t.Helper()
	if !to {
		t.Errorf(eformat, args...)
	}
}

// Include expects v1 to be one of in
func Include(t *testing.T, v1 interface{}, in ...interface{}) {
	t.Helper()

	for _, v2 := range in {
		if reflect.DeepEqual(v1, v2) {
			return
		}
	}
	t.Errorf("Expected '%v' to be in %v", v1, in)
}

// Equal expects both arguments to be equal
// Internaly uses reflection.DeepEqual to perform test
func Equal(t *testing.T, v1, v2 interface{}) {
	t.Helper()
	Expect(t, reflect.DeepEqual(v1, v2), "Expected '%v' (%T) to equal '%v' (%T)", v1, v1, v2, v2)
}

// EqualE expects err to be nil and both values to be equal
func EqualE(t *testing.T, v1 interface{}, err error, v2 interface{}) {
	t.Helper()
	NilError(t, err)
	Equal(t, v1, v2)
}

// NilError should be used to check returned Go error.
// Test fails if there is error.
func NilError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
}

// Error expects Go error to be non-nil
func Error(t *testing.T, i error, eformat string, args ...interface{}) {
	t.Helper()
	Expect(t, i != nil, eformat, args...)
}

// ErrorIs expects err to match target with errors.Is
func ErrorIs(t *testing.T, err, target error) {
	t.Helper()
	Expect(t, errors.Is(err, target), "Expected error '%v' to be %v", err, target)
}
