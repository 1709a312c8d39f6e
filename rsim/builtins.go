package rsim

import (
	"math"
	"reflect"
	"strconv"

	"github.com/oruby/rbridge"
)

type builtinFunc = func(in *Interp, args *List) (interface{}, error)

var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"list":       fList,
		"[[<-":       fSetItem,
		"[[":         fGetItem,
		"[":          fSubset,
		"do.call":    fDoCall,
		"seq":        fSeq,
		"seq_len":    fSeqLen,
		"as.call":    fAsCall,
		"eval":       fEval,
		"c":          fC,
		"sum":        fSum,
		"mean":       fMean,
		"length":     fLength,
		"class":      fClass,
		"class<-":    fSetClass,
		"names":      fNames,
		"names<-":    fSetNames,
		"~":          fTilde,
		"data.frame": fDataFrame,
		"nrow":       fNrow,
		"ncol":       fNcol,
		"identical":  fIdentical,
		"identity":   fIdentity,
		"is.na":      fIsNA,
		"assign":     fAssign,
		"globalenv":  fGlobalEnv,
	}
}

// arg returns positional argument i or named argument name
func arg(args *List, i int, name string) (interface{}, bool) {
	if args.Names != nil {
		for j, n := range args.Names {
			if n == name {
				return args.Elems[j], true
			}
		}
	}

	pos := 0
	for j, e := range args.Elems {
		if args.Names != nil && args.Names[j] != "" {
			continue
		}
		if pos == i {
			return e, true
		}
		pos++
	}
	return nil, false
}

func mustArg(args *List, i int, name string) (interface{}, error) {
	v, ok := arg(args, i, name)
	if !ok || v == Missing {
		return nil, rbridge.ERError("argument %q is missing, with no default", name)
	}
	return v, nil
}

// positional returns unnamed arguments
func positional(args *List) []interface{} {
	ret := make([]interface{}, 0, len(args.Elems))
	for j, e := range args.Elems {
		if args.Names == nil || args.Names[j] == "" {
			ret = append(ret, e)
		}
	}
	return ret
}

func flag(args *List, name string) bool {
	v, ok := arg(args, -1, name)
	if !ok {
		return false
	}
	if vec, ok := v.(*Vector); ok && len(vec.Elems) == 1 {
		b, _ := vec.Elems[0].(bool)
		return b
	}
	return false
}

func copyList(l *List) *List {
	c := &List{Elems: make([]interface{}, len(l.Elems)), Attrs: l.Attrs.copy()}
	copy(c.Elems, l.Elems)
	if l.Names != nil {
		c.Names = make([]string, len(l.Names))
		copy(c.Names, l.Names)
	}
	return c
}

func fList(in *Interp, args *List) (interface{}, error) {
	return copyList(args), nil
}

// scalar numeric value of length one vector
func scalar(obj interface{}) (float64, error) {
	v, ok := obj.(*Vector)
	if !ok || len(v.Elems) != 1 {
		return 0, rbridge.ERError("expected numeric value of length one")
	}
	switch x := v.Elems[0].(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	}
	return 0, rbridge.ERError("expected numeric value, got %s", v.Mode)
}

func index(obj interface{}) (int, string, error) {
	v, ok := obj.(*Vector)
	if !ok || len(v.Elems) != 1 {
		return 0, "", rbridge.ERError("invalid subscript")
	}
	if s, ok := v.Elems[0].(string); ok {
		return 0, s, nil
	}
	f, err := scalar(v)
	if err != nil {
		return 0, "", rbridge.ERError("invalid subscript type '%s'", v.Mode)
	}
	if f < 1 {
		return 0, "", rbridge.ERError("invalid subscript %v", f)
	}
	return int(f), "", nil
}

func fSetItem(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	i, err := mustArg(args, 1, "i")
	if err != nil {
		return nil, err
	}
	value, ok := arg(args, 2, "value")
	if !ok {
		return nil, rbridge.ERError("argument \"value\" is missing, with no default")
	}

	var l *List
	switch v := x.(type) {
	case *List:
		l = copyList(v)
	case *nullObj:
		l = &List{}
	default:
		return nil, rbridge.ERError("`[[<-` is only supported for lists, got %s", className(x)[0])
	}

	pos, name, err := index(i)
	if err != nil {
		return nil, err
	}

	if name != "" {
		pos = 0
		for j, n := range l.Names {
			if n == name {
				pos = j + 1
				break
			}
		}
		if pos == 0 {
			if value == Null {
				return l, nil
			}
			l.Elems = append(l.Elems, value)
			if l.Names == nil {
				l.Names = make([]string, len(l.Elems)-1)
			}
			l.Names = append(l.Names, name)
			return l, nil
		}
	}

	// NULL value deletes element
	if value == Null {
		if pos <= len(l.Elems) {
			l.Elems = append(l.Elems[:pos-1], l.Elems[pos:]...)
			if l.Names != nil {
				l.Names = append(l.Names[:pos-1], l.Names[pos:]...)
			}
		}
		return l, nil
	}

	for len(l.Elems) < pos {
		l.Elems = append(l.Elems, Null)
		if l.Names != nil {
			l.Names = append(l.Names, "")
		}
	}
	l.Elems[pos-1] = value
	return l, nil
}

func fGetItem(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	i, err := mustArg(args, 1, "i")
	if err != nil {
		return nil, err
	}

	pos, name, err := index(i)
	if err != nil {
		return nil, err
	}

	switch v := x.(type) {
	case *List:
		if name != "" {
			for j, n := range v.Names {
				if n == name {
					return v.Elems[j], nil
				}
			}
			return Null, nil
		}
		if pos > len(v.Elems) {
			return nil, rbridge.ERError("subscript out of bounds")
		}
		return v.Elems[pos-1], nil
	case *Vector:
		if name != "" || pos > len(v.Elems) {
			return nil, rbridge.ERError("subscript out of bounds")
		}
		return &Vector{Mode: v.Mode, Elems: []interface{}{v.Elems[pos-1]}}, nil
	}
	return nil, rbridge.ERError("object of type '%s' is not subsettable", className(x)[0])
}

// fSubset is x[i] for vectors; missing i selects all, negative indices drop
func fSubset(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	v, ok := x.(*Vector)
	if !ok {
		return nil, rbridge.ERError("`[` is only supported for vectors, got %s", className(x)[0])
	}

	i, ok := arg(args, 1, "i")
	if !ok || i == Missing {
		c := *v
		c.Elems = append([]interface{}(nil), v.Elems...)
		return &c, nil
	}

	idx, ok := i.(*Vector)
	if !ok || (idx.Mode != Double && idx.Mode != Integer) {
		return nil, rbridge.ERError("invalid subscript type '%s'", className(i)[0])
	}

	ret := &Vector{Mode: v.Mode}
	nums := make([]int, len(idx.Elems))
	neg := 0
	for j, e := range idx.Elems {
		f, _ := scalar(&Vector{Mode: idx.Mode, Elems: []interface{}{e}})
		nums[j] = int(f)
		if nums[j] < 0 {
			neg++
		}
	}

	if neg > 0 {
		if neg != len(nums) {
			return nil, rbridge.ERError("can't mix positive and negative subscripts")
		}
		drop := make(map[int]bool)
		for _, n := range nums {
			drop[-n] = true
		}
		for j, e := range v.Elems {
			if !drop[j+1] {
				ret.Elems = append(ret.Elems, e)
			}
		}
		return ret, nil
	}

	for _, n := range nums {
		if n == 0 {
			continue
		}
		if n > len(v.Elems) {
			ret.Elems = append(ret.Elems, nil)
			continue
		}
		ret.Elems = append(ret.Elems, v.Elems[n-1])
	}
	return ret, nil
}

func fDoCall(in *Interp, args *List) (interface{}, error) {
	what, err := mustArg(args, 0, "what")
	if err != nil {
		return nil, err
	}

	if name, ok := what.(*Vector); ok && name.Mode == Character && len(name.Elems) == 1 {
		if what, err = in.lookup(name.Elems[0].(string)); err != nil {
			return nil, rbridge.ERError("could not find function %q", name.Elems[0])
		}
	}

	a, ok := arg(args, 1, "args")
	if !ok {
		a = &List{}
	}
	l, ok := a.(*List)
	if !ok {
		return nil, rbridge.ERError("second argument must be a list")
	}

	return in.apply(what, copyList(l))
}

func fSeq(in *Interp, args *List) (interface{}, error) {
	fv, err := mustArg(args, 0, "from")
	if err != nil {
		return nil, err
	}
	tv, err := mustArg(args, 1, "to")
	if err != nil {
		return nil, err
	}
	from, err := scalar(fv)
	if err != nil {
		return nil, err
	}
	to, err := scalar(tv)
	if err != nil {
		return nil, err
	}

	step := 1.0
	if to < from {
		step = -1.0
	}
	n := int(math.Floor(math.Abs(to-from))) + 1

	whole := from == math.Trunc(from)
	ret := &Vector{Mode: Double, Elems: make([]interface{}, n)}
	if whole {
		ret.Mode = Integer
	}
	for j := 0; j < n; j++ {
		f := from + float64(j)*step
		if whole {
			ret.Elems[j] = int(f)
		} else {
			ret.Elems[j] = f
		}
	}
	return ret, nil
}

func fSeqLen(in *Interp, args *List) (interface{}, error) {
	lv, err := mustArg(args, 0, "length.out")
	if err != nil {
		return nil, err
	}
	n, err := scalar(lv)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, rbridge.ERError("argument of length 0")
	}
	ret := &Vector{Mode: Integer, Elems: make([]interface{}, int(n))}
	for j := range ret.Elems {
		ret.Elems[j] = j + 1
	}
	return ret, nil
}

func fAsCall(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	l, ok := x.(*List)
	if !ok || len(l.Elems) == 0 {
		return nil, rbridge.ERError("invalid argument list")
	}
	c := copyList(l)
	return &Lang{Elems: c.Elems, Names: c.Names}, nil
}

func fEval(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "expr")
	if err != nil {
		return nil, err
	}
	l, ok := x.(*Lang)
	if !ok {
		return x, nil
	}

	call := &List{Elems: append([]interface{}(nil), l.Elems[1:]...)}
	if l.Names != nil {
		call.Names = append([]string(nil), l.Names[1:]...)
	}
	return in.apply(l.Elems[0], call)
}

func fC(in *Interp, args *List) (interface{}, error) {
	mode := Logical
	var elems []interface{}
	for _, e := range args.Elems {
		switch v := e.(type) {
		case *nullObj:
			continue
		case *Vector:
			if modeRank[v.Mode] > modeRank[mode] {
				mode = v.Mode
			}
			elems = append(elems, v.Elems...)
		default:
			return nil, rbridge.ERError("c() of %s is not supported", className(e)[0])
		}
	}

	if len(elems) == 0 {
		return Null, nil
	}

	ret := &Vector{Mode: mode, Elems: make([]interface{}, len(elems))}
	for j, e := range elems {
		ret.Elems[j] = coerce(e, mode)
	}
	return ret, nil
}

func coerce(e interface{}, mode string) interface{} {
	if e == nil {
		return nil
	}
	switch mode {
	case Integer:
		if b, ok := e.(bool); ok {
			if b {
				return 1
			}
			return 0
		}
	case Double:
		switch x := e.(type) {
		case bool:
			if x {
				return 1.0
			}
			return 0.0
		case int:
			return float64(x)
		}
	case Character:
		return asCharacter(e)
	}
	return e
}

func asCharacter(e interface{}) string {
	switch x := e.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', 15, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}

func numbers(args *List) ([]float64, bool, error) {
	var ret []float64
	na := false
	for _, e := range positional(args) {
		v, ok := e.(*Vector)
		if !ok || v.Mode == Character {
			return nil, false, rbridge.ERError("invalid 'type' (%s) of argument", className(e)[0])
		}
		for _, x := range v.Elems {
			switch n := x.(type) {
			case nil:
				na = true
			case float64:
				ret = append(ret, n)
			case int:
				ret = append(ret, float64(n))
			case bool:
				if n {
					ret = append(ret, 1)
				} else {
					ret = append(ret, 0)
				}
			}
		}
	}
	return ret, na, nil
}

func fSum(in *Interp, args *List) (interface{}, error) {
	nums, na, err := numbers(args)
	if err != nil {
		return nil, err
	}
	if na && !flag(args, "na.rm") {
		return &Vector{Mode: Double, Elems: []interface{}{nil}}, nil
	}
	s := 0.0
	for _, n := range nums {
		s += n
	}
	return NewDoubles(s), nil
}

func fMean(in *Interp, args *List) (interface{}, error) {
	pos := positional(args)
	if len(pos) == 0 {
		return nil, rbridge.ERError("argument \"x\" is missing, with no default")
	}
	nums, na, err := numbers(&List{Elems: pos[:1]})
	if err != nil {
		return nil, err
	}
	if na && !flag(args, "na.rm") {
		return &Vector{Mode: Double, Elems: []interface{}{nil}}, nil
	}
	if len(nums) == 0 {
		return NewDoubles(math.NaN()), nil
	}
	s := 0.0
	for _, n := range nums {
		s += n
	}
	return NewDoubles(s / float64(len(nums))), nil
}

func length(obj interface{}) int {
	switch v := obj.(type) {
	case *Vector:
		return len(v.Elems)
	case *List:
		return len(v.Elems)
	case *Lang:
		return len(v.Elems)
	case *nullObj:
		return 0
	}
	return 1
}

func fLength(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	return NewInts(length(x)), nil
}

func fClass(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	return NewStrings(className(x)...), nil
}

func fSetClass(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	value, err := mustArg(args, 1, "value")
	if err != nil {
		return nil, err
	}
	if v, ok := value.(*Vector); value != Null && (!ok || v.Mode != Character) {
		return nil, rbridge.ERError("attempt to set invalid 'class' attribute")
	}
	return withAttr(x, "class", value)
}

func fNames(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case *List:
		if v.Names == nil {
			return Null, nil
		}
		return NewStrings(v.Names...), nil
	case *Vector:
		if n, ok := v.Attrs["names"]; ok {
			return n, nil
		}
	}
	return Null, nil
}

func fSetNames(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	value, err := mustArg(args, 1, "value")
	if err != nil {
		return nil, err
	}

	var names []string
	if value != Null {
		v, ok := value.(*Vector)
		if !ok || v.Mode != Character {
			return nil, rbridge.ERError("names must be character vector")
		}
		if len(v.Elems) > length(x) {
			return nil, rbridge.ERError("'names' attribute [%d] must be the same length as the vector [%d]", len(v.Elems), length(x))
		}
		names = make([]string, length(x))
		for j, e := range v.Elems {
			names[j], _ = e.(string)
		}
	}

	switch v := x.(type) {
	case *List:
		c := copyList(v)
		c.Names = names
		return c, nil
	case *Vector:
		if names == nil {
			return withAttr(v, "names", Null)
		}
		return withAttr(v, "names", NewStrings(names...))
	}
	return nil, rbridge.ERError("names() applied to a non-vector")
}

// fTilde is `~` evaluated: the formula is the call itself
func fTilde(in *Interp, args *List) (interface{}, error) {
	c := copyList(args)
	l := &Lang{Elems: append([]interface{}{in.global["~"]}, c.Elems...)}
	if c.Names != nil {
		l.Names = append([]string{""}, c.Names...)
	}
	return withAttr(l, "class", NewStrings("formula"))
}

func fDataFrame(in *Interp, args *List) (interface{}, error) {
	df := &List{Attrs: Attrs{"class": NewStrings("data.frame")}}
	rows := -1
	for j, e := range args.Elems {
		name := ""
		if args.Names != nil {
			name = args.Names[j]
		}
		if name == "stringsAsFactors" || name == "check.names" {
			continue
		}
		if name == "" {
			name = "V" + strconv.Itoa(j+1)
		}

		v, ok := e.(*Vector)
		if !ok {
			return nil, rbridge.ERError("data.frame column %q must be a vector", name)
		}
		if rows >= 0 && len(v.Elems) != rows {
			return nil, rbridge.ERError("arguments imply differing number of rows: %d, %d", rows, len(v.Elems))
		}
		rows = len(v.Elems)
		df.Elems = append(df.Elems, v)
		df.Names = append(df.Names, name)
	}
	if rows < 0 {
		rows = 0
	}
	df.Attrs["row.names"] = NewInts(rows)
	return df, nil
}

func fNrow(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	if l, ok := x.(*List); ok {
		if rn, ok := l.Attrs["row.names"].(*Vector); ok {
			return rn, nil
		}
	}
	return Null, nil
}

func fNcol(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	if l, ok := x.(*List); ok && l.Attrs["row.names"] != nil {
		return NewInts(len(l.Elems)), nil
	}
	return Null, nil
}

func fIdentical(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	y, err := mustArg(args, 1, "y")
	if err != nil {
		return nil, err
	}
	return NewBools(reflect.DeepEqual(x, y)), nil
}

func fIdentity(in *Interp, args *List) (interface{}, error) {
	return mustArg(args, 0, "x")
}

func fIsNA(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	v, ok := x.(*Vector)
	if !ok {
		return NewBools(false), nil
	}
	ret := &Vector{Mode: Logical, Elems: make([]interface{}, len(v.Elems))}
	for j, e := range v.Elems {
		f, isFloat := e.(float64)
		ret.Elems[j] = e == nil || (isFloat && math.IsNaN(f))
	}
	return ret, nil
}

var globalEnv = &Env{"R_GlobalEnv"}

func fGlobalEnv(in *Interp, args *List) (interface{}, error) {
	return globalEnv, nil
}

func fAssign(in *Interp, args *List) (interface{}, error) {
	x, err := mustArg(args, 0, "x")
	if err != nil {
		return nil, err
	}
	value, err := mustArg(args, 1, "value")
	if err != nil {
		return nil, err
	}
	name, ok := x.(*Vector)
	if !ok || name.Mode != Character || len(name.Elems) != 1 {
		return nil, rbridge.ERError("invalid first argument")
	}
	if env, ok := arg(args, 2, "envir"); ok && env != globalEnv {
		return nil, rbridge.ERError("only global environment is supported")
	}
	in.global[name.Elems[0].(string)] = value
	return value, nil
}
