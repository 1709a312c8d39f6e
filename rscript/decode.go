package rscript

import (
	"strconv"
	"strings"

	"github.com/oruby/rbridge"
)

// lineReader returns next reply line
type lineReader func() (string, error)

// decode reads VAL block. Atomic vectors of length one become scalars,
// vectors with NA become []interface{} with nil for NA, other vectors
// typed slices. Lists become []interface{}.
func decode(next lineReader) (interface{}, error) {
	line, err := next()
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(line, "ERR ") {
		return nil, replyError(line)
	}

	f := strings.Fields(line)
	if len(f) != 3 || f[0] != "VAL" {
		return nil, rbridge.ERError("unexpected reply %q", line)
	}
	mode := f[1]
	n, err := strconv.Atoi(f[2])
	if err != nil || n < 0 {
		return nil, rbridge.ERError("invalid length in reply %q", line)
	}

	switch mode {
	case "NULL":
		return nil, nil
	case "list":
		ret := make([]interface{}, n)
		for i := range ret {
			if ret[i], err = decode(next); err != nil {
				return nil, err
			}
		}
		return ret, nil
	}

	elems := make([]interface{}, n)
	na := false
	for i := range elems {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		if tok == "NA" {
			na = true
			continue
		}
		if elems[i], err = parseElem(mode, tok); err != nil {
			return nil, err
		}
	}

	if n == 1 {
		return elems[0], nil
	}
	if na {
		return elems, nil
	}
	return typed(mode, elems), nil
}

func parseElem(mode, tok string) (interface{}, error) {
	switch mode {
	case "logical":
		return tok == "TRUE", nil
	case "integer":
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, rbridge.ERError("invalid integer %q", tok)
		}
		return n, nil
	case "double":
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, rbridge.ERError("invalid double %q", tok)
		}
		return f, nil
	case "character":
		return unquoteR(tok)
	}
	return nil, rbridge.ERError("unsupported mode %s", mode)
}

func typed(mode string, elems []interface{}) interface{} {
	switch mode {
	case "logical":
		ret := make([]bool, len(elems))
		for i, e := range elems {
			ret[i] = e.(bool)
		}
		return ret
	case "integer":
		ret := make([]int, len(elems))
		for i, e := range elems {
			ret[i] = e.(int)
		}
		return ret
	case "double":
		ret := make([]float64, len(elems))
		for i, e := range elems {
			ret[i] = e.(float64)
		}
		return ret
	}
	ret := make([]string, len(elems))
	for i, e := range elems {
		ret[i] = e.(string)
	}
	return ret
}

// replyError converts ERR reply into R error
func replyError(line string) error {
	msg, err := unquoteR(strings.TrimPrefix(line, "ERR "))
	if err != nil {
		msg = strings.TrimPrefix(line, "ERR ")
	}
	return rbridge.ERError("%s", msg)
}
