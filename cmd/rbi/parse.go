package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/oruby/rbridge"
)

// rname is bare identifier argument, looked up in R when dispatching
type rname string

var (
	intRe   = regexp.MustCompile(`^-?[0-9]+$`)
	rangeRe = regexp.MustCompile(`^(-?)([0-9]+):(<?)(-?[0-9]+)$`)
	keyRe   = regexp.MustCompile(`^([A-Za-z._][A-Za-z0-9._]*)=(.+)$`)
	nameRe  = regexp.MustCompile(`^[A-Za-z.][A-Za-z0-9._]*$`)
)

// splitLine splits dispatch line on spaces, keeping double quoted strings
// together
func splitLine(line string) ([]string, error) {
	var (
		ret     []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			inQuote = !inQuote
			started = true
		case !inQuote && unicode.IsSpace(r):
			if started {
				ret = append(ret, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}

	if inQuote {
		return nil, fmt.Errorf("unterminated string in %q", line)
	}
	if started {
		ret = append(ret, cur.String())
	}
	return ret, nil
}

// parseToken converts single dispatch argument:
//
//	nil, all, true, false
//	1, -1        int
//	1.5          float64
//	"s"          string
//	a:b, a:<b    Span, SpanExcl
//	-a:b         negated range
//	name         R variable
func parseToken(tok string) (interface{}, error) {
	switch tok {
	case "nil":
		return nil, nil
	case "all":
		return rbridge.All, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if strings.HasPrefix(tok, `"`) {
		s, err := strconv.Unquote(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid string %s", tok)
		}
		return s, nil
	}

	if intRe.MatchString(tok) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		return n, nil
	}

	if m := rangeRe.FindStringSubmatch(tok); m != nil {
		first, _ := strconv.Atoi(m[2])
		last, _ := strconv.Atoi(m[4])
		r := rbridge.Span(first, last)
		if m[3] == "<" {
			r = rbridge.SpanExcl(first, last)
		}
		if m[1] == "-" {
			return r.Neg(), nil
		}
		return r, nil
	}

	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}

	if nameRe.MatchString(tok) {
		return rname(tok), nil
	}
	return nil, fmt.Errorf("unknown argument %s", tok)
}

// parseDispatch parses "name arg ..." line. Consecutive key=value
// arguments are collected into one *rbridge.Options at their position.
func parseDispatch(line string) (string, []interface{}, error) {
	toks, err := splitLine(line)
	if err != nil {
		return "", nil, err
	}
	if len(toks) == 0 {
		return "", nil, fmt.Errorf("missing function name")
	}

	var (
		args []interface{}
		opts *rbridge.Options
	)
	for _, tok := range toks[1:] {
		if m := keyRe.FindStringSubmatch(tok); m != nil && !strings.HasPrefix(tok, `"`) {
			v, err := parseToken(m[2])
			if err != nil {
				return "", nil, err
			}
			if opts == nil {
				opts = rbridge.NewOptions()
				args = append(args, opts)
			}
			opts.Set(m[1], v)
			continue
		}

		v, err := parseToken(tok)
		if err != nil {
			return "", nil, err
		}
		opts = nil
		args = append(args, v)
	}
	return toks[0], args, nil
}

// resolveNames looks up bare identifiers in R
func resolveNames(st *rbridge.State, args []interface{}) ([]interface{}, error) {
	ret := make([]interface{}, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case rname:
			obj, err := st.Eval(string(v))
			if err != nil {
				return nil, err
			}
			ret[i] = obj
		case *rbridge.Options:
			resolved := rbridge.NewOptions()
			var err error
			v.ForEach(func(key string, val interface{}) bool {
				if n, ok := val.(rname); ok {
					if val, err = st.Eval(string(n)); err != nil {
						return false
					}
				}
				resolved.Set(key, val)
				return true
			})
			if err != nil {
				return nil, err
			}
			ret[i] = resolved
		default:
			ret[i] = arg
		}
	}
	return ret, nil
}
