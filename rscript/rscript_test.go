package rscript

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"github.com/oruby/rbridge"
	"github.com/oruby/rbridge/internal/assert"
)

// fakeR serves protocol requests with handler, recording them
type fakeR struct {
	mu   sync.Mutex
	reqs []string
}

func (f *fakeR) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reqs...)
}

func startFake(t *testing.T, handler func(op, arg string) []string) (*Interp, *fakeR, *bytes.Buffer) {
	t.Helper()
	reqR, reqW := io.Pipe()
	repR, repW := io.Pipe()

	f := &fakeR{}
	go func() {
		defer repW.Close()
		sc := bufio.NewScanner(reqR)
		for sc.Scan() {
			line := sc.Text()
			f.mu.Lock()
			f.reqs = append(f.reqs, line)
			f.mu.Unlock()
			for _, l := range handler(line[:1], line[2:]) {
				fmt.Fprintln(repW, l)
			}
		}
	}()

	var out bytes.Buffer
	in := newInterp(repR, reqW)
	in.stdin = reqW
	in.out = &out
	t.Cleanup(func() { in.Close() })
	return in, f, &out
}

func rep(lines ...string) []string {
	ret := make([]string, len(lines))
	for i, l := range lines {
		ret[i] = marker + l
	}
	return ret
}

func TestEvalProtocol(t *testing.T) {
	n := 0
	in, f, out := startFake(t, func(op, arg string) []string {
		n++
		if arg == `"nope"` {
			return rep(`ERR "object 'nope' not found"`)
		}
		return append([]string{"[1] printed"}, "partial"+marker+fmt.Sprintf("OK %d", n))
	})

	v, err := in.Eval("x <- 1\nx")
	assert.NilError(t, err)
	assert.Equal(t, v.Ref(), interface{}(handle(1)))
	assert.Equal(t, f.requests(), []string{`E "x <- 1\nx"`})
	assert.Equal(t, out.String(), "[1] printed\npartial\n")

	_, err = in.Eval("nope")
	assert.ErrorIs(t, err, rbridge.ErrForeign)
	assert.Equal(t, err.Error(), "object 'nope' not found")
}

func TestCallProtocol(t *testing.T) {
	in, f, _ := startFake(t, func(op, arg string) []string {
		return rep("OK 9")
	})

	v, err := in.Call(rbridge.MakeValue(handle(1)), rbridge.MakeValue(handle(2)), 1, "a", nil, []float64{}, 2.5)
	assert.NilError(t, err)
	assert.Equal(t, v.Ref(), interface{}(handle(9)))

	want := `.rb$call(.rb$h[["1"]], list(.rb$h[["2"]], 1L, "a", NULL, numeric(0), 2.5))`
	assert.Equal(t, f.requests(), []string{"E " + quoteR(want)})

	_, err = in.Call(rbridge.MakeValue("x"))
	assert.ErrorIs(t, err, rbridge.ErrForeign)

	_, err = in.Call(rbridge.MakeValue(handle(1)), struct{}{})
	assert.ErrorIs(t, err, rbridge.ErrForeign)
	assert.Equal(t, len(f.requests()), 1)
}

func TestIntfProtocol(t *testing.T) {
	in, f, _ := startFake(t, func(op, arg string) []string {
		switch op + arg {
		case "G3":
			return rep(
				"VAL list 3",
				"VAL double 2", "1", "2.5",
				`VAL character 1`, `"a\"b"`,
				"VAL NULL 0",
			)
		case "F3":
			return rep("OK 3")
		}
		return rep(`ERR "invalid handle"`)
	})

	got, err := in.Intf(rbridge.MakeValue(handle(3)))
	assert.EqualE(t, got, err, []interface{}{[]float64{1, 2.5}, `a"b`, nil})

	_, err = in.Intf(rbridge.MakeValue(handle(4)))
	assert.ErrorIs(t, err, rbridge.ErrForeign)

	assert.NilError(t, in.Release(rbridge.MakeValue(handle(3))))
	assert.Equal(t, f.requests(), []string{"G 3", "G 4", "F 3"})
}

func TestClosed(t *testing.T) {
	in, _, _ := startFake(t, func(op, arg string) []string { return rep("OK 1") })

	assert.NilError(t, in.Close())
	assert.NilError(t, in.Close())

	_, err := in.Eval("1")
	assert.ErrorIs(t, err, rbridge.ErrClosed)
}

func TestInterpreterExit(t *testing.T) {
	in, _, _ := startFake(t, func(op, arg string) []string { return nil })

	// server closing its output without reply
	go in.stdin.Close()
	_, err := in.Eval("q()")
	assert.ErrorIs(t, err, rbridge.ErrClosed)
}

func lines(ls ...string) lineReader {
	return func() (string, error) {
		if len(ls) == 0 {
			return "", rbridge.Raise(rbridge.ErrClosed, "eof")
		}
		l := ls[0]
		ls = ls[1:]
		return l, nil
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		lines []string
		want  interface{}
	}{
		{[]string{"VAL NULL 0"}, nil},
		{[]string{"VAL logical 1", "TRUE"}, true},
		{[]string{"VAL logical 2", "TRUE", "FALSE"}, []bool{true, false}},
		{[]string{"VAL integer 3", "1", "2", "3"}, []int{1, 2, 3}},
		{[]string{"VAL integer 0"}, []int{}},
		{[]string{"VAL integer 2", "1", "NA"}, []interface{}{1, nil}},
		{[]string{"VAL double 1", "NA"}, nil},
		{[]string{"VAL double 2", "Inf", "-Inf"}, []float64{math.Inf(1), math.Inf(-1)}},
		{[]string{"VAL character 2", `"x\ny"`, "NA"}, []interface{}{"x\ny", nil}},
		{[]string{"VAL character 1", `"NA"`}, "NA"},
		{[]string{"VAL list 0"}, []interface{}{}},
		{[]string{"VAL list 2", "VAL list 1", "VAL integer 1", "7", "VAL NULL 0"}, []interface{}{[]interface{}{7}, nil}},
	}

	for _, c := range cases {
		got, err := decode(lines(c.lines...))
		assert.EqualE(t, got, err, c.want)
	}

	nan, err := decode(lines("VAL double 1", "NaN"))
	assert.NilError(t, err)
	assert.Expect(t, math.IsNaN(nan.(float64)), "expected NaN, got %v", nan)
}

func TestDecodeErrors(t *testing.T) {
	for _, ls := range [][]string{
		{`ERR "boom"`},
		{"OK 1"},
		{"VAL integer x"},
		{"VAL integer 1", "1.5"},
		{"VAL double 1", "abc"},
		{"VAL character 1", "unquoted"},
		{"VAL complex 1", "1+2i"},
		{"VAL integer 2", "1"},
	} {
		_, err := decode(lines(ls...))
		assert.Error(t, err, "decoding %v should fail", ls)
	}

	_, err := decode(lines(`ERR "boom"`))
	assert.ErrorIs(t, err, rbridge.ErrForeign)
	assert.Equal(t, err.Error(), "boom")
}

func TestRender(t *testing.T) {
	for _, c := range []struct {
		arg  interface{}
		want string
	}{
		{nil, "NULL"},
		{true, "TRUE"},
		{3, "3L"},
		{int64(-3), "-3L"},
		{int64(1) << 40, "1.099511627776e+12"},
		{uint64(math.MaxUint32), "4.294967295e+09"},
		{uint8(7), "7L"},
		{1.5, "1.5"},
		{3.0, "3"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Inf"},
		{"a\"b\n", `"a\"b\n"`},
		{[]int{1, 2}, "c(1L, 2L)"},
		{[]bool{}, "logical(0)"},
		{[]string{"x"}, `c("x")`},
		{[]float64{0.5, 1}, "c(0.5, 1)"},
		{rbridge.MakeValue(handle(12)), `.rb$h[["12"]]`},
	} {
		got, err := render(c.arg)
		assert.EqualE(t, got, err, c.want)
	}

	_, err := render(map[string]int{})
	assert.ErrorIs(t, err, rbridge.ErrForeign)

	_, err = render(rbridge.Value{})
	assert.ErrorIs(t, err, rbridge.ErrForeign)
}

func TestQuoteR(t *testing.T) {
	for _, s := range []string{"", "plain", "tab\there", `back\slash`, "ünïcode", "\x01"} {
		q := quoteR(s)
		assert.Expect(t, strings.HasPrefix(q, `"`), "quoted %q should start with quote", q)
		u, err := unquoteR(q)
		assert.EqualE(t, u, err, s)
	}
}

// TestRscript runs against real R, when installed
func TestRscript(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Rscript in short mode")
	}
	if _, err := exec.LookPath("Rscript"); err != nil {
		t.Skip("Rscript not installed")
	}

	st, err := rbridge.Open("rscript", rbridge.DefaultConfig())
	assert.NilError(t, err)
	defer st.Close()

	x, err := st.R("c", 1, 2, rbridge.Span(3, 5))
	assert.NilError(t, err)

	v, err := x.Go()
	assert.EqualE(t, v, err, []float64{1, 2, 3, 4, 5})

	m, err := x.Call("mean", rbridge.Kw("na__rm", true))
	assert.NilError(t, err)
	v, err = m.Go()
	assert.EqualE(t, v, err, 3.0)

	sub, err := st.ExecFunctionName("`[`", x, rbridge.Span(2, 3).Neg())
	assert.NilError(t, err)
	v, err = sub.Go()
	assert.EqualE(t, v, err, []float64{1, 4, 5})

	sub, err = st.ExecFunctionName("`[`", x, rbridge.All)
	assert.NilError(t, err)
	v, err = sub.Go()
	assert.EqualE(t, v, err, []float64{1, 2, 3, 4, 5})

	mat, err := st.R("matrix", rbridge.Span(1, 6), rbridge.Kw("nrow", 2))
	assert.NilError(t, err)
	col, err := st.ExecFunctionName("`[`", mat, rbridge.All, 2)
	assert.NilError(t, err)
	v, err = col.Go()
	assert.EqualE(t, v, err, []int{3, 4})

	row, err := st.ExecFunctionName("`[`", mat, 1, rbridge.All)
	assert.NilError(t, err)
	v, err = row.Go()
	assert.EqualE(t, v, err, []int{1, 3, 5})

	c, err := x.Class()
	assert.EqualE(t, c, err, []string{"numeric"})

	f, err := st.Formula(x, x)
	assert.NilError(t, err)
	c, err = f.Class()
	assert.EqualE(t, c, err, []string{"formula"})

	_, err = st.R("nope", 1)
	assert.ErrorIs(t, err, rbridge.ErrForeign)
}
