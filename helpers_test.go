package rbridge_test

import (
	"testing"

	"github.com/oruby/rbridge"
	"github.com/oruby/rbridge/rsim"
)

// newState returns state over fresh simulated interpreter
func newState(t *testing.T) (*rbridge.State, *rsim.Interp) {
	t.Helper()
	in := rsim.New()
	st := rbridge.New(in)
	t.Cleanup(func() { _ = st.Close() })
	return st, in
}

// gz converts R value to Go value, failing test on error
func gz(t *testing.T, st *rbridge.State, v rbridge.RValue) interface{} {
	t.Helper()
	ret, err := st.Intf(v)
	if err != nil {
		t.Fatalf("Error converting %v: %v", v, err)
	}
	return ret
}
