package rbridge

import "fmt"

// RValue is interface type which can return R value
type RValue interface {
	Value() Value
}

// Value is an opaque handle to a value owned by the R interpreter.
// The referenced object lives in the interpreter; Value only carries
// the backend reference and is copied by value.
type Value struct{ ref interface{} }

// MakeValue wraps backend reference into Value. Only Interop backends
// should need it.
func MakeValue(ref interface{}) Value { return Value{ref} }

// Ref returns backend reference held by value
func (v Value) Ref() interface{} { return v.ref }

// Value implements RValue interface for Value
func (v Value) Value() Value { return v }

// IsNil checks if value holds no reference at all.
// R NULL is a valid reference and is not nil here.
func (v Value) IsNil() bool { return v.ref == nil }

// String implements Stringer
func (v Value) String() string {
	if v.ref == nil {
		return "<R:nil>"
	}
	return fmt.Sprintf("<R:%v>", v.ref)
}

// IsForeign reports whether x is a handle to an R value
func IsForeign(x interface{}) bool {
	_, ok := x.(Value)
	return ok
}

type selectAll struct{}

func (selectAll) String() string { return "all" }

// All is the select-all marker. As an argument it becomes R empty
// argument, as in x[, 1].
var All = selectAll{}
