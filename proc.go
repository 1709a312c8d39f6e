package rbridge

// ExecFunctionI calls R function fn with Go arguments through do.call and
// returns raw result, without wrapping it in Object
func (st *State) ExecFunctionI(fn Value, args ...interface{}) (Value, error) {
	pl, err := st.Parse2List(args...)
	if err != nil {
		return Value{}, err
	}
	return st.Funcall("do.call", fn, pl)
}

// ExecFunction calls R function fn with Go arguments and wraps result
func (st *State) ExecFunction(fn Value, args ...interface{}) (*Object, error) {
	v, err := st.ExecFunctionI(fn, args...)
	if err != nil {
		return nil, err
	}
	return st.Build(v), nil
}

// ExecFunctionName calls R function by its R name, like "paste0" or
// "`names<-`"
func (st *State) ExecFunctionName(name string, args ...interface{}) (*Object, error) {
	fn, err := st.Eval(name)
	if err != nil {
		return nil, err
	}
	return st.ExecFunction(fn, args...)
}
