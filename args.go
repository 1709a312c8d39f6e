package rbridge

// EmptySymbol returns R empty argument, the value of a slot where nothing
// is supplied, as in x[, 1]
func (st *State) EmptySymbol() (Value, error) {
	return st.Eval("quote(expr = )")
}

// ParseArg converts Go argument to R call argument. Rules, first match wins:
//
//	Value                 unchanged
//	All                   R empty argument
//	int, int8 .. uint64   float64, R numbers are doubles
//	RValue (*Object...)   its Value
//	NegRange              seq(-first, -final)
//	Range                 seq(first, final)
//	*Options              ErrIllegalArgument, options are only valid as last argument
//	anything else         unchanged, backend converts it implicitly
func (st *State) ParseArg(arg interface{}) (interface{}, error) {
	switch v := arg.(type) {
	case Value:
		return v, nil
	case selectAll:
		return st.EmptySymbol()
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case RValue:
		return v.Value(), nil
	case NegRange:
		return st.seq(-v.first, -v.Final(), v.Len())
	case Range:
		return st.seq(v.first, v.Final(), v.Len())
	case *Options:
		return nil, EArgumentError("illegal parameter %v: options are valid only as last argument", v.Keys())
	}
	return arg, nil
}

// seq builds R integer sequence from..to. Empty Go ranges give empty
// sequence, as seq(from, to) always has at least one element.
func (st *State) seq(from, to, n int) (Value, error) {
	if n == 0 {
		return st.Funcall("seq_len", 0)
	}
	return st.Funcall("seq", from, to)
}

// checkArgs fails if options are given anywhere but as last argument, or
// are nested inside options
func checkArgs(args []interface{}) error {
	for i, arg := range args {
		opts, ok := arg.(*Options)
		if !ok {
			continue
		}

		if i != len(args)-1 {
			return EArgumentError("illegal parameter %v at position %d: options are valid only as last argument", opts.Keys(), i)
		}

		var err error
		opts.ForEach(func(key string, val interface{}) bool {
			if _, nested := val.(*Options); nested {
				err = EArgumentError("illegal value for option %q: options can not be nested", key)
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Parse2List converts Go arguments into R list usable with do.call.
// Positional arguments are stored at 1-based indices in order given,
// trailing *Options are stored by name with keys converted by
// ConvertSymbol, so na__rm becomes na.rm.
//
// Arguments are validated before anything is sent to R. The list itself
// is built in R, one `[[<-` call per entry.
func (st *State) Parse2List(args ...interface{}) (Value, error) {
	if err := checkArgs(args); err != nil {
		return Value{}, err
	}

	params, err := st.Eval("list()")
	if err != nil {
		return Value{}, err
	}

	for i, arg := range args {
		if opts, ok := arg.(*Options); ok {
			opts.ForEach(func(key string, val interface{}) bool {
				params, err = st.setItem(params, ConvertSymbol(key), val)
				return err == nil
			})
			if err != nil {
				return Value{}, err
			}
			continue
		}

		params, err = st.setItem(params, i+1, arg)
		if err != nil {
			return Value{}, err
		}
	}

	return params, nil
}

func (st *State) setItem(list Value, index, arg interface{}) (Value, error) {
	v, err := st.ParseArg(arg)
	if err != nil {
		return Value{}, err
	}

	return st.Funcall("`[[<-`", list, index, v)
}
