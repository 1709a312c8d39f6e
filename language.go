package rbridge

// Language is unevaluated R call. R evaluates it only when asked, so it
// is used for formulas and for calls which are passed around as data.
type Language struct{ *Object }

// BuildCall builds unevaluated R call of fn with args. fn is either R
// function name, like "`~`" or "sum", or RValue holding function.
//
// The call is as.call of the argument list, with function as first list
// element.
func (st *State) BuildCall(fn interface{}, args ...interface{}) (*Language, error) {
	var fv Value
	switch f := fn.(type) {
	case string:
		v, err := st.Eval(f)
		if err != nil {
			return nil, err
		}
		fv = v
	case RValue:
		fv = f.Value()
	default:
		return nil, EArgumentError("function must be name or R value, got %T", fn)
	}

	pl, err := st.Parse2List(append([]interface{}{fv}, args...)...)
	if err != nil {
		return nil, err
	}

	call, err := st.Funcall("as.call", pl)
	if err != nil {
		return nil, err
	}

	return &Language{st.Build(call)}, nil
}

// Eval evaluates call
func (l *Language) Eval() (*Object, error) {
	return l.st.ExecFunctionName("eval", l)
}

// Tilde builds one-sided formula ~x from object
func (o *Object) Tilde() (*Language, error) {
	return o.st.formula(o)
}

// Formula builds two-sided formula lhs ~ rhs
func (st *State) Formula(lhs, rhs interface{}) (*Language, error) {
	return st.formula(lhs, rhs)
}

func (st *State) formula(args ...interface{}) (*Language, error) {
	l, err := st.BuildCall("`~`", args...)
	if err != nil {
		return nil, err
	}

	if err := l.Fassign("class", "formula"); err != nil {
		return nil, err
	}
	return l, nil
}
