package rbridge

import "fmt"

// Options is ordered keyword map passed as named arguments to R functions.
// It is only valid as the last argument of argument list; anywhere else
// the Call Builder fails with ErrIllegalArgument.
type Options struct {
	keys []string
	vals map[string]interface{}
}

// NewOptions creates empty options
func NewOptions() *Options {
	return &Options{vals: make(map[string]interface{})}
}

// Kw creates options from key, value pairs:
//
//	rbridge.Kw("na__rm", true, "trim", 0.1)
//
// Keys must be strings and pairs must be complete, Kw panics otherwise.
func Kw(pairs ...interface{}) *Options {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("rbridge.Kw: odd number of arguments (%d)", len(pairs)))
	}

	o := NewOptions()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("rbridge.Kw: key %v is %T, not string", pairs[i], pairs[i]))
		}
		o.Set(key, pairs[i+1])
	}
	return o
}

// Set sets key value. Existing key keeps its position.
func (o *Options) Set(key string, val interface{}) *Options {
	if o.vals == nil {
		o.vals = make(map[string]interface{})
	}
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
	return o
}

// Get gets value for key
func (o *Options) Get(key string) (interface{}, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Fetch gets value for key, or default value if key is missing
func (o *Options) Fetch(key string, def interface{}) interface{} {
	if v, ok := o.vals[key]; ok {
		return v
	}
	return def
}

// Delete removes key
func (o *Options) Delete(key string) {
	if _, exists := o.vals[key]; !exists {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order
func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	ret := make([]string, len(o.keys))
	copy(ret, o.keys)
	return ret
}

// Len returns number of keys
func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// ForEach walks key value pairs in insertion order. Return false to
// break the loop.
func (o *Options) ForEach(f func(key string, val interface{}) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !f(k, o.vals[k]) {
			return
		}
	}
}
