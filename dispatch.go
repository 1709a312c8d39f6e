package rbridge

// ResultKind tags dispatch result
type ResultKind int

// Result kinds
const (
	ResultNone    ResultKind = iota // nothing was done, setter names
	ResultWrapped                   // result wrapped in Object
	ResultRaw                       // raw R value, internal calls
)

func (k ResultKind) String() string {
	switch k {
	case ResultWrapped:
		return "wrapped"
	case ResultRaw:
		return "raw"
	}
	return "none"
}

// Result of missing method dispatch
type Result struct {
	Kind ResultKind
	Obj  *Object // set for ResultWrapped
	Raw  Value   // set for ResultRaw
}

// Value returns R value of result, wrapped or raw. Zero Value for
// ResultNone.
func (r Result) Value() Value {
	switch r.Kind {
	case ResultWrapped:
		return r.Obj.Value()
	case ResultRaw:
		return r.Raw
	}
	return Value{}
}

// IsNone is true if dispatch did nothing
func (r Result) IsNone() bool { return r.Kind == ResultNone }

// Forwarder is implemented by types which pass unknown operations on to R
type Forwarder interface {
	Forward(name string, internal bool, args ...interface{}) (Result, error)
}

// ProcessMissing resolves call of name unknown on Go side against R:
//
//   - name is converted with ConvertSymbol
//   - setter names ('names=') are not handled here, ResultNone is returned
//   - without arguments name is looked up as R value, not called
//   - single nil or "" argument calls name() without arguments
//   - otherwise name is called with args through do.call
//
// Results are wrapped in Object unless internal is set, then raw value is
// returned for further R side chaining. R errors are returned as they are,
// "not found" and "call failed" are not told apart.
func (st *State) ProcessMissing(symbol string, internal bool, args ...interface{}) (Result, error) {
	name := ConvertSymbol(symbol)

	if isSetter(name) {
		st.tracef("missing %s: setter, ignored", name)
		return Result{}, nil
	}

	if len(args) == 0 {
		v, err := st.Eval(name)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultWrapped, Obj: st.Build(v)}, nil
	}

	if len(args) == 1 && isNoArg(args[0]) {
		v, err := st.Eval(name + "()")
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultWrapped, Obj: st.Build(v)}, nil
	}

	fn, err := st.Eval(name)
	if err != nil {
		return Result{}, err
	}

	if internal {
		v, err := st.ExecFunctionI(fn, args...)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultRaw, Raw: v}, nil
	}

	obj, err := st.ExecFunction(fn, args...)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: ResultWrapped, Obj: obj}, nil
}

// isNoArg tells if single argument means "call without arguments"
func isNoArg(arg interface{}) bool {
	if arg == nil {
		return true
	}
	s, ok := arg.(string)
	return ok && s == ""
}

// Forward implements Forwarder for R namespace itself, so R.c(1, 2) is
// st.Forward("c", false, 1, 2)
func (st *State) Forward(name string, internal bool, args ...interface{}) (Result, error) {
	return st.ProcessMissing(name, internal, args...)
}

// R calls R function name with args and returns wrapped result. It is
// shorthand for non internal ProcessMissing. Setter names return nil.
func (st *State) R(name string, args ...interface{}) (*Object, error) {
	res, err := st.ProcessMissing(name, false, args...)
	if err != nil {
		return nil, err
	}
	return res.Obj, nil
}
