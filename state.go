package rbridge

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Interop is the polyglot surface of R interpreter. Backends implement it;
// the bridge only ever talks to R through these four calls.
type Interop interface {
	// Eval evaluates R source text and returns handle to the result
	Eval(src string) (Value, error)

	// Call invokes R function fn with positional arguments. Go arguments
	// are converted with backend implicit conversion rules: Value as is,
	// nil as NULL, bool, integers, floats, strings and slices of those
	// as R vectors.
	Call(fn Value, args ...interface{}) (Value, error)

	// Intf converts R value to Go value
	Intf(v Value) (interface{}, error)

	// Close releases the interpreter
	Close() error
}

// Config for opening backends
type Config struct {
	Command string        // interpreter executable, for process backends
	Args    []string      // extra interpreter arguments
	Dir     string        // working directory
	Env     []string      // extra environment, KEY=value
	Timeout time.Duration // how long Close waits before killing the interpreter
	Trace   *log.Logger   // round trip trace, nil disables tracing
}

// DefaultConfig returns config with values taken from environment:
//
//	RBRIDGE_RSCRIPT  interpreter executable (default Rscript)
//	RBRIDGE_TIMEOUT  close timeout, Go duration syntax or seconds (default 5s)
func DefaultConfig() Config {
	conf := Config{
		Command: "Rscript",
		Timeout: 5 * time.Second,
	}

	if cmd := os.Getenv("RBRIDGE_RSCRIPT"); cmd != "" {
		conf.Command = cmd
	}

	if t := os.Getenv("RBRIDGE_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			conf.Timeout = d
		} else if s, err := strconv.Atoi(t); err == nil {
			conf.Timeout = time.Duration(s) * time.Second
		}
	}

	return conf
}

// State is main bridge context. It wraps Interop of single R interpreter
// and is base for all Call Builder and Dispatcher calls.
//
// State does no locking. R interpreter is expected to be used from one
// goroutine at a time.
type State struct {
	ip    Interop
	trace *log.Logger
}

// New creates state over interop backend
func New(ip Interop) *State {
	return &State{ip: ip}
}

// Interop returns backend interop
func (st *State) Interop() Interop { return st.ip }

// SetTrace sets logger for round trip tracing, nil disables it
func (st *State) SetTrace(l *log.Logger) { st.trace = l }

func (st *State) tracef(format string, args ...interface{}) {
	if st.trace != nil {
		st.trace.Printf(format, args...)
	}
}

// Eval evaluates R source
func (st *State) Eval(src string) (Value, error) {
	st.tracef("eval %s", src)
	v, err := st.ip.Eval(src)
	if err != nil {
		st.tracef("eval %s failed: %v", src, err)
	}
	return v, err
}

// Call invokes R function with already normalized arguments
func (st *State) Call(fn Value, args ...interface{}) (Value, error) {
	st.tracef("call %v with %d args", fn, len(args))
	v, err := st.ip.Call(fn, args...)
	if err != nil {
		st.tracef("call %v failed: %v", fn, err)
	}
	return v, err
}

// Funcall evaluates function name and calls it with positional arguments
func (st *State) Funcall(name string, args ...interface{}) (Value, error) {
	fn, err := st.Eval(name)
	if err != nil {
		return Value{}, err
	}
	return st.Call(fn, args...)
}

// Intf converts R value to Go value
func (st *State) Intf(v RValue) (interface{}, error) {
	return st.ip.Intf(v.Value())
}

// Close closes the interpreter
func (st *State) Close() error {
	st.tracef("close")
	return st.ip.Close()
}
