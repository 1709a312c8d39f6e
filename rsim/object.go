package rsim

import (
	"fmt"
	"math"
	"strings"

	"github.com/oruby/rbridge"
)

// Vector modes
const (
	Logical   = "logical"
	Integer   = "integer"
	Double    = "double"
	Character = "character"
)

var modeRank = map[string]int{Logical: 0, Integer: 1, Double: 2, Character: 3}

// Attrs holds object attributes, like class and names
type Attrs map[string]interface{}

func (a Attrs) copy() Attrs {
	if a == nil {
		return nil
	}
	ret := make(Attrs, len(a))
	for k, v := range a {
		ret[k] = v
	}
	return ret
}

// Vector is atomic R vector. Elems hold float64, int, string or bool
// depending on Mode; nil element is NA.
type Vector struct {
	Mode  string
	Elems []interface{}
	Attrs Attrs
}

// List is generic R vector. Names has the same length as Elems, with ""
// for unnamed elements, or is nil.
type List struct {
	Elems []interface{}
	Names []string
	Attrs Attrs
}

// Lang is unevaluated R call; Elems[0] is the function
type Lang struct {
	Elems []interface{}
	Names []string
	Attrs Attrs
}

// Builtin is R function implemented in Go
type Builtin struct {
	Name string
	Fn   func(in *Interp, args *List) (interface{}, error)
}

// Env is R environment
type Env struct{ name string }

type nullObj struct{}

func (nullObj) String() string { return "NULL" }

type missingArg struct{}

func (missingArg) String() string { return "<empty>" }

// R singletons
var (
	Null    = &nullObj{}
	Missing = &missingArg{}
)

func (v *Vector) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		switch x := e.(type) {
		case nil:
			parts[i] = "NA"
		case string:
			parts[i] = fmt.Sprintf("%q", x)
		case bool:
			if x {
				parts[i] = "TRUE"
			} else {
				parts[i] = "FALSE"
			}
		default:
			parts[i] = fmt.Sprint(x)
		}
	}
	return "c(" + strings.Join(parts, ", ") + ")"
}

func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		if l.Names != nil && l.Names[i] != "" {
			parts[i] = fmt.Sprintf("%s = %v", l.Names[i], e)
		} else {
			parts[i] = fmt.Sprint(e)
		}
	}
	return "list(" + strings.Join(parts, ", ") + ")"
}

func (l *Lang) String() string {
	parts := make([]string, 0, len(l.Elems))
	for i, e := range l.Elems[1:] {
		if l.Names != nil && l.Names[i+1] != "" {
			parts = append(parts, fmt.Sprintf("%s = %v", l.Names[i+1], e))
		} else {
			parts = append(parts, fmt.Sprint(e))
		}
	}
	return fmt.Sprintf("%v(%s)", l.Elems[0], strings.Join(parts, ", "))
}

func (b *Builtin) String() string { return "`" + b.Name + "`" }

func (e *Env) String() string { return "<environment: " + e.name + ">" }

// NewDoubles creates double vector
func NewDoubles(fs ...float64) *Vector {
	v := &Vector{Mode: Double, Elems: make([]interface{}, len(fs))}
	for i, f := range fs {
		v.Elems[i] = f
	}
	return v
}

// NewInts creates integer vector
func NewInts(is ...int) *Vector {
	v := &Vector{Mode: Integer, Elems: make([]interface{}, len(is))}
	for i, n := range is {
		v.Elems[i] = n
	}
	return v
}

// NewStrings creates character vector
func NewStrings(ss ...string) *Vector {
	v := &Vector{Mode: Character, Elems: make([]interface{}, len(ss))}
	for i, s := range ss {
		v.Elems[i] = s
	}
	return v
}

// NewBools creates logical vector
func NewBools(bs ...bool) *Vector {
	v := &Vector{Mode: Logical, Elems: make([]interface{}, len(bs))}
	for i, b := range bs {
		v.Elems[i] = b
	}
	return v
}

// toR converts Go value passed to Call into R object
func toR(arg interface{}) (interface{}, error) {
	switch v := arg.(type) {
	case rbridge.Value:
		if v.IsNil() {
			return nil, rbridge.ERError("invalid R value handle")
		}
		return v.Ref(), nil
	case nil:
		return Null, nil
	case bool:
		return NewBools(v), nil
	case int:
		return intOrDouble(int64(v)), nil
	case int8:
		return NewInts(int(v)), nil
	case int16:
		return NewInts(int(v)), nil
	case int32:
		return NewInts(int(v)), nil
	case int64:
		return intOrDouble(v), nil
	case uint:
		return intOrDouble(int64(v)), nil
	case uint8:
		return NewInts(int(v)), nil
	case uint16:
		return NewInts(int(v)), nil
	case uint32:
		return intOrDouble(int64(v)), nil
	case uint64:
		if v > math.MaxInt32 {
			return NewDoubles(float64(v)), nil
		}
		return NewInts(int(v)), nil
	case float32:
		return NewDoubles(float64(v)), nil
	case float64:
		return NewDoubles(v), nil
	case string:
		return NewStrings(v), nil
	case []float64:
		return NewDoubles(v...), nil
	case []int:
		return NewInts(v...), nil
	case []string:
		return NewStrings(v...), nil
	case []bool:
		return NewBools(v...), nil
	}
	return nil, rbridge.ERError("cannot convert %T to R value", arg)
}

// R integers are 32 bit
func intOrDouble(n int64) *Vector {
	if n > math.MaxInt32 || n < -math.MaxInt32 {
		return NewDoubles(float64(n))
	}
	return NewInts(int(n))
}

// toGo converts R object to Go value
func toGo(obj interface{}) (interface{}, error) {
	switch v := obj.(type) {
	case *nullObj:
		return nil, nil
	case *Vector:
		return vectorToGo(v), nil
	case *List:
		ret := make([]interface{}, len(v.Elems))
		for i, e := range v.Elems {
			x, err := toGo(e)
			if err != nil {
				return nil, err
			}
			ret[i] = x
		}
		return ret, nil
	}
	return nil, rbridge.ERError("cannot convert %s to Go value", className(obj)[0])
}

func vectorToGo(v *Vector) interface{} {
	if len(v.Elems) == 1 {
		return v.Elems[0]
	}

	for _, e := range v.Elems {
		if e == nil {
			ret := make([]interface{}, len(v.Elems))
			copy(ret, v.Elems)
			return ret
		}
	}

	switch v.Mode {
	case Double:
		ret := make([]float64, len(v.Elems))
		for i, e := range v.Elems {
			ret[i] = e.(float64)
		}
		return ret
	case Integer:
		ret := make([]int, len(v.Elems))
		for i, e := range v.Elems {
			ret[i] = e.(int)
		}
		return ret
	case Character:
		ret := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			ret[i] = e.(string)
		}
		return ret
	default:
		ret := make([]bool, len(v.Elems))
		for i, e := range v.Elems {
			ret[i] = e.(bool)
		}
		return ret
	}
}

// className returns R class of object, explicit class attribute first
func className(obj interface{}) []string {
	if attrs := attrsOf(obj); attrs != nil {
		if c, ok := attrs["class"].(*Vector); ok && c.Mode == Character {
			ret := make([]string, len(c.Elems))
			for i, e := range c.Elems {
				ret[i], _ = e.(string)
			}
			return ret
		}
	}

	switch v := obj.(type) {
	case *nullObj:
		return []string{"NULL"}
	case *Vector:
		if v.Mode == Double {
			return []string{"numeric"}
		}
		return []string{v.Mode}
	case *List:
		return []string{"list"}
	case *Lang:
		return []string{"call"}
	case *Builtin:
		return []string{"function"}
	case *Env:
		return []string{"environment"}
	case *missingArg:
		return []string{"name"}
	}
	return []string{fmt.Sprintf("%T", obj)}
}

func attrsOf(obj interface{}) Attrs {
	switch v := obj.(type) {
	case *Vector:
		return v.Attrs
	case *List:
		return v.Attrs
	case *Lang:
		return v.Attrs
	}
	return nil
}

// withAttr returns copy of object with attribute set
func withAttr(obj interface{}, name string, val interface{}) (interface{}, error) {
	set := func(a Attrs) Attrs {
		a = a.copy()
		if a == nil {
			a = make(Attrs)
		}
		if val == Null {
			delete(a, name)
		} else {
			a[name] = val
		}
		return a
	}

	switch v := obj.(type) {
	case *Vector:
		c := *v
		c.Attrs = set(v.Attrs)
		return &c, nil
	case *List:
		c := *v
		c.Attrs = set(v.Attrs)
		return &c, nil
	case *Lang:
		c := *v
		c.Attrs = set(v.Attrs)
		return &c, nil
	}
	return nil, rbridge.ERError("attempt to set an attribute on %s", className(obj)[0])
}
