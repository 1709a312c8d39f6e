package rscript

import (
	"math"
	"strconv"
	"strings"

	"github.com/oruby/rbridge"
)

// handle is R value reference held in rbridge.Value
type handle uint64

func (h handle) String() string { return "h" + strconv.FormatUint(uint64(h), 10) }

// src is R expression which evaluates to handle value
func (h handle) src() string { return `.rb$h[["` + strconv.FormatUint(uint64(h), 10) + `"]]` }

// quoteR quotes string as R string literal. Go escapes \n, \t, \", \\,
// \xNN and \uNNNN are valid R escapes as well.
func quoteR(s string) string {
	return strconv.Quote(s)
}

// unquoteR reads R string literal as written by encodeString
func unquoteR(s string) (string, error) {
	ret, err := strconv.Unquote(s)
	if err != nil {
		return "", rbridge.ERError("invalid R string %s", s)
	}
	return ret, nil
}

func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatInt(n int64) string {
	if n > math.MaxInt32 || n < -math.MaxInt32 {
		return formatDouble(float64(n))
	}
	return strconv.FormatInt(n, 10) + "L"
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func vector(empty string, elems []string) string {
	if len(elems) == 0 {
		return empty
	}
	return "c(" + strings.Join(elems, ", ") + ")"
}

// render converts Go call argument into R source, with the same implicit
// conversions the simulated backend does
func render(arg interface{}) (string, error) {
	switch v := arg.(type) {
	case rbridge.Value:
		h, ok := v.Ref().(handle)
		if !ok {
			return "", rbridge.ERError("invalid R value handle %v", v)
		}
		return h.src(), nil
	case nil:
		return "NULL", nil
	case bool:
		return formatBool(v), nil
	case int:
		return formatInt(int64(v)), nil
	case int8:
		return formatInt(int64(v)), nil
	case int16:
		return formatInt(int64(v)), nil
	case int32:
		return formatInt(int64(v)), nil
	case int64:
		return formatInt(v), nil
	case uint:
		return formatUint(uint64(v)), nil
	case uint8:
		return formatInt(int64(v)), nil
	case uint16:
		return formatInt(int64(v)), nil
	case uint32:
		return formatInt(int64(v)), nil
	case uint64:
		return formatUint(v), nil
	case float32:
		return formatDouble(float64(v)), nil
	case float64:
		return formatDouble(v), nil
	case string:
		return quoteR(v), nil
	case []float64:
		elems := make([]string, len(v))
		for i, f := range v {
			elems[i] = formatDouble(f)
		}
		return vector("numeric(0)", elems), nil
	case []int:
		elems := make([]string, len(v))
		for i, n := range v {
			elems[i] = formatInt(int64(n))
		}
		return vector("integer(0)", elems), nil
	case []string:
		elems := make([]string, len(v))
		for i, s := range v {
			elems[i] = quoteR(s)
		}
		return vector("character(0)", elems), nil
	case []bool:
		elems := make([]string, len(v))
		for i, b := range v {
			elems[i] = formatBool(b)
		}
		return vector("logical(0)", elems), nil
	}
	return "", rbridge.ERError("cannot convert %T to R value", arg)
}

func formatUint(n uint64) string {
	if n > math.MaxInt32 {
		return formatDouble(float64(n))
	}
	return formatInt(int64(n))
}

// callSrc is R source calling fn with positional args
func callSrc(fn handle, args []interface{}) (string, error) {
	var b strings.Builder
	b.WriteString(".rb$call(")
	b.WriteString(fn.src())
	b.WriteString(", list(")
	for i, arg := range args {
		s, err := render(arg)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s)
	}
	b.WriteString("))")
	return b.String(), nil
}
