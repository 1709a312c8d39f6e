// Package rsim is simulated R interpreter. It keeps R values as Go
// objects in process and implements the small set of R functions the
// bridge itself depends on (list, `[[<-`, do.call, seq, as.call...) plus a
// few common ones. It is registered as backend "sim".
//
// Every Eval and Call is recorded in the trace, which makes the number and
// order of round trips observable in tests.
package rsim

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/oruby/rbridge"
)

func init() {
	rbridge.Register("sim", func(conf rbridge.Config) (rbridge.Interop, error) {
		return New(), nil
	})
}

// Interp is simulated R interpreter
type Interp struct {
	global map[string]interface{}
	trace  []string
	closed bool
}

// New creates interpreter with builtins defined in global environment
func New() *Interp {
	in := &Interp{global: make(map[string]interface{})}
	for name, fn := range builtins {
		in.global[name] = &Builtin{name, fn}
	}
	in.global["T"] = NewBools(true)
	in.global["F"] = NewBools(false)
	in.global["pi"] = NewDoubles(3.141592653589793)
	in.global["LETTERS"] = NewStrings(strings.Split("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "")...)
	return in
}

// Define sets global variable to R object
func (in *Interp) Define(name string, obj interface{}) {
	in.global[name] = obj
}

// DefineFunc defines global R function implemented in Go
func (in *Interp) DefineFunc(name string, fn func(in *Interp, args *List) (interface{}, error)) {
	in.global[name] = &Builtin{name, fn}
}

// Lookup returns global variable
func (in *Interp) Lookup(name string) (interface{}, bool) {
	obj, ok := in.global[name]
	return obj, ok
}

// Trace returns recorded round trips, "eval <src>" and "call <function>"
func (in *Interp) Trace() []string {
	ret := make([]string, len(in.trace))
	copy(ret, in.trace)
	return ret
}

// ResetTrace clears recorded round trips
func (in *Interp) ResetTrace() { in.trace = in.trace[:0] }

var (
	identRe     = regexp.MustCompile(`^[A-Za-z.][A-Za-z0-9._]*$`)
	backquoteRe = regexp.MustCompile("^`[^`]+`$")
	emptyArgRe  = regexp.MustCompile(`^quote\(\s*expr\s*=\s*\)$`)
)

// Eval evaluates R source. Supported are names, backquoted names,
// calls without arguments like list(), numeric and string constants,
// TRUE, FALSE, NULL, NA and quote(expr = ).
func (in *Interp) Eval(src string) (rbridge.Value, error) {
	if in.closed {
		return rbridge.Value{}, rbridge.Raise(rbridge.ErrClosed, "interpreter is closed")
	}
	in.trace = append(in.trace, "eval "+src)

	obj, err := in.eval(strings.TrimSpace(src))
	if err != nil {
		return rbridge.Value{}, err
	}
	return rbridge.MakeValue(obj), nil
}

func (in *Interp) eval(src string) (interface{}, error) {
	switch src {
	case "TRUE":
		return NewBools(true), nil
	case "FALSE":
		return NewBools(false), nil
	case "NULL":
		return Null, nil
	case "NA":
		return &Vector{Mode: Logical, Elems: []interface{}{nil}}, nil
	}

	if emptyArgRe.MatchString(src) {
		return Missing, nil
	}

	if strings.HasSuffix(src, "()") {
		name := src[:len(src)-2]
		if !isName(name) {
			return nil, rbridge.ERError("unexpected input: %s", src)
		}
		fn, err := in.lookup(name)
		if err != nil {
			return nil, rbridge.ERError("could not find function %q", unquoteName(name))
		}
		return in.apply(fn, &List{})
	}

	if f, err := strconv.ParseFloat(src, 64); err == nil {
		return NewDoubles(f), nil
	}

	if strings.HasPrefix(src, `"`) {
		s, err := strconv.Unquote(src)
		if err != nil {
			return nil, rbridge.ERError("unexpected string constant: %s", src)
		}
		return NewStrings(s), nil
	}

	if !isName(src) {
		return nil, rbridge.ERError("unexpected input: %s", src)
	}
	return in.lookup(src)
}

func isName(s string) bool {
	return identRe.MatchString(s) || backquoteRe.MatchString(s)
}

func unquoteName(s string) string {
	return strings.Trim(s, "`")
}

func (in *Interp) lookup(name string) (interface{}, error) {
	name = unquoteName(name)
	obj, ok := in.global[name]
	if !ok {
		return nil, rbridge.ERError("object '%s' not found", name)
	}
	return obj, nil
}

// Call calls R function fn with positional arguments
func (in *Interp) Call(fn rbridge.Value, args ...interface{}) (rbridge.Value, error) {
	if in.closed {
		return rbridge.Value{}, rbridge.Raise(rbridge.ErrClosed, "interpreter is closed")
	}

	f := fn.Ref()
	in.trace = append(in.trace, "call "+funcName(f))

	list := &List{Elems: make([]interface{}, len(args))}
	for i, arg := range args {
		obj, err := toR(arg)
		if err != nil {
			return rbridge.Value{}, err
		}
		list.Elems[i] = obj
	}

	ret, err := in.apply(f, list)
	if err != nil {
		return rbridge.Value{}, err
	}
	return rbridge.MakeValue(ret), nil
}

func funcName(f interface{}) string {
	if b, ok := f.(*Builtin); ok {
		return b.Name
	}
	return fmt.Sprint(f)
}

func (in *Interp) apply(f interface{}, args *List) (interface{}, error) {
	b, ok := f.(*Builtin)
	if !ok {
		return nil, rbridge.ERError("attempt to apply non-function")
	}

	ret, err := b.Fn(in, args)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return Null, nil
	}
	return ret, nil
}

// Intf converts R value to Go value
func (in *Interp) Intf(v rbridge.Value) (interface{}, error) {
	if v.IsNil() {
		return nil, rbridge.ERError("invalid R value handle")
	}
	return toGo(v.Ref())
}

// Close closes interpreter, further calls fail with ErrClosed
func (in *Interp) Close() error {
	in.closed = true
	return nil
}
