package rbridge

// Object is Go side R object. It owns one R value and passes unknown
// operations to the Dispatcher.
type Object struct {
	v  Value
	st *State
}

// Build wraps R value in Object
func (st *State) Build(v Value) *Object {
	return &Object{v, st}
}

// Value implements RValue interface for Object
func (o *Object) Value() Value {
	if o == nil {
		return Value{}
	}
	return o.v
}

// RInterop returns owned R value
func (o *Object) RInterop() Value { return o.Value() }

// State returns state object belongs to
func (o *Object) State() *State {
	if o == nil {
		return nil
	}
	return o.st
}

// String implements Stringer
func (o *Object) String() string { return o.Value().String() }

func (o *Object) state() (*State, error) {
	if o == nil || o.st == nil {
		return nil, ETypeError("nil R object")
	}
	return o.st, nil
}

// Forward implements Forwarder. Object is passed to R function as first
// argument, so x.Forward("ncol", ...) is ncol(x).
func (o *Object) Forward(name string, internal bool, args ...interface{}) (Result, error) {
	st, err := o.state()
	if err != nil {
		return Result{}, err
	}
	return st.ProcessMissing(name, internal, append([]interface{}{o}, args...)...)
}

// Call calls R function name with object as first argument and returns
// wrapped result. Setter names return nil object; use Fassign for them.
func (o *Object) Call(name string, args ...interface{}) (*Object, error) {
	res, err := o.Forward(name, false, args...)
	if err != nil {
		return nil, err
	}
	return res.Obj, nil
}

// Fassign is R functional assignment. It runs
//
//	x <- `name<-`(x, value)
//
// and replaces value owned by object with the result, so
// x.Fassign("names", R.c("a", "b")) is R names(x) <- c("a", "b").
func (o *Object) Fassign(name string, value interface{}) error {
	st, err := o.state()
	if err != nil {
		return err
	}
	v, err := st.ExecFunctionName("`"+ConvertSymbol(name)+"<-`", o, value)
	if err != nil {
		return err
	}
	o.v = v.Value()
	return nil
}

// Go converts object to Go value
func (o *Object) Go() (interface{}, error) {
	st, err := o.state()
	if err != nil {
		return nil, err
	}
	return st.Intf(o)
}

// Class returns R class of object
func (o *Object) Class() ([]string, error) {
	c, err := o.Call("rclass")
	if err != nil {
		return nil, err
	}

	intf, err := c.Go()
	if err != nil {
		return nil, err
	}

	switch v := intf.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	}
	return nil, ETypeError("unexpected class value %v", intf)
}
