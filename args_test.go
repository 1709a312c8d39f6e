package rbridge_test

import (
	"testing"

	"github.com/oruby/rbridge"
	"github.com/oruby/rbridge/internal/assert"
	"github.com/oruby/rbridge/rsim"
)

func TestParseArgIntegers(t *testing.T) {
	st, in := newState(t)

	for _, n := range []interface{}{3, int8(3), int16(3), int32(3), int64(3), uint(3), uint8(3), uint16(3), uint32(3), uint64(3)} {
		v, err := st.ParseArg(n)
		assert.EqualE(t, v, err, 3.0)
	}

	v, err := st.ParseArg(-7)
	assert.EqualE(t, v, err, -7.0)

	assert.Equal(t, len(in.Trace()), 0)
}

func TestParseArgPassThrough(t *testing.T) {
	st, _ := newState(t)

	for _, x := range []interface{}{"text", true, 1.5, nil, []float64{1, 2}} {
		v, err := st.ParseArg(x)
		assert.EqualE(t, v, err, x)
	}

	h, err := st.Eval("pi")
	assert.NilError(t, err)
	v, err := st.ParseArg(h)
	assert.EqualE(t, v, err, h)
}

func TestParseArgObject(t *testing.T) {
	st, _ := newState(t)

	h, err := st.Eval("LETTERS")
	assert.NilError(t, err)

	v, err := st.ParseArg(st.Build(h))
	assert.EqualE(t, v, err, h)
}

func TestParseArgRanges(t *testing.T) {
	st, _ := newState(t)

	cases := []struct {
		r    interface{}
		want interface{}
		n    int
	}{
		{rbridge.Span(1, 5), []int{1, 2, 3, 4, 5}, 5},
		{rbridge.SpanExcl(1, 5), []int{1, 2, 3, 4}, 4},
		{rbridge.Span(2, 2), 2, 1},
		{rbridge.SpanExcl(3, 3), []int{}, 0},
		{rbridge.Span(-2, 1), []int{-2, -1, 0, 1}, 4},
		{rbridge.Span(2, 3).Neg(), []int{-2, -3}, 2},
		{rbridge.SpanExcl(2, 5).Neg(), []int{-2, -3, -4}, 3},
	}

	for _, c := range cases {
		v, err := st.ParseArg(c.r)
		assert.NilError(t, err)

		h, ok := v.(rbridge.Value)
		assert.Expect(t, ok, "range %v should convert to R value, got %T", c.r, v)
		assert.Equal(t, gz(t, st, h), c.want)

		n, err := st.R("length", h)
		assert.NilError(t, err)
		assert.Equal(t, gz(t, st, n), c.n)
	}

	assert.Equal(t, rbridge.Span(1, 5).Len(), 5)
	assert.Equal(t, rbridge.SpanExcl(1, 5).Len(), 4)
	assert.Equal(t, rbridge.SpanExcl(3, 3).Len(), 0)
}

func TestParseArgIdempotent(t *testing.T) {
	st, _ := newState(t)

	v1, err := st.ParseArg(rbridge.Span(1, 3))
	assert.NilError(t, err)
	v2, err := st.ParseArg(rbridge.Span(1, 3))
	assert.NilError(t, err)

	same, err := st.R("identical", v1, v2)
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, same), true)

	n1, _ := st.ParseArg(42)
	n2, _ := st.ParseArg(42)
	assert.Equal(t, n1, n2)
}

func TestParseArgAll(t *testing.T) {
	st, _ := newState(t)

	v, err := st.ParseArg(rbridge.All)
	assert.NilError(t, err)
	assert.Equal(t, v.(rbridge.Value).Ref(), interface{}(rsim.Missing))

	x, err := st.R("c", 10, 20, 30, 40)
	assert.NilError(t, err)

	all, err := st.ExecFunctionName("`[`", x, rbridge.All)
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, all), []float64{10, 20, 30, 40})

	dropped, err := st.ExecFunctionName("`[`", x, rbridge.Span(2, 3).Neg())
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, dropped), []float64{10, 40})
}

func TestParseArgOptionsIllegal(t *testing.T) {
	st, in := newState(t)

	_, err := st.ParseArg(rbridge.Kw("a", 1))
	assert.ErrorIs(t, err, rbridge.ErrIllegalArgument)
	assert.Equal(t, len(in.Trace()), 0)
}

func TestParse2List(t *testing.T) {
	st, _ := newState(t)

	l, err := st.Parse2List(1, 2, rbridge.Kw("a", 3, "b", 4))
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, l), []interface{}{1.0, 2.0, 3.0, 4.0})

	names, err := st.R("names", l)
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, names), []string{"", "", "a", "b"})
}

func TestParse2ListKeyTranslation(t *testing.T) {
	st, _ := newState(t)

	l, err := st.Parse2List(rbridge.Kw("na__rm", true, "rclass", "x"))
	assert.NilError(t, err)

	names, err := st.R("names", l)
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, names), []string{"na.rm", "class"})
}

func TestParse2ListRoundTrips(t *testing.T) {
	st, in := newState(t)

	_, err := st.Parse2List(1, "x")
	assert.NilError(t, err)
	assert.Equal(t, in.Trace(), []string{
		"eval list()",
		"eval `[[<-`", "call [[<-",
		"eval `[[<-`", "call [[<-",
	})
}

// NULL stored with `[[<-` deletes the slot, so nil only survives as a
// gap before a later positional argument
func TestParse2ListNil(t *testing.T) {
	st, _ := newState(t)

	l, err := st.Parse2List(1, nil)
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, l), []interface{}{1.0})

	l, err = st.Parse2List(1, rbridge.Kw("envir", nil))
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, l), []interface{}{1.0})

	l, err = st.Parse2List(1, nil, 3)
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, l), []interface{}{1.0, nil, 3.0})
}

func TestParse2ListEmpty(t *testing.T) {
	st, _ := newState(t)

	l, err := st.Parse2List()
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, l), []interface{}{})
}

func TestParse2ListOptionsNotLast(t *testing.T) {
	st, in := newState(t)

	_, err := st.Parse2List(1, rbridge.Kw("a", 2), rbridge.Kw("b", 3))
	assert.ErrorIs(t, err, rbridge.ErrIllegalArgument)

	_, err = st.Parse2List(rbridge.Kw("a", 2), 1)
	assert.ErrorIs(t, err, rbridge.ErrIllegalArgument)

	_, err = st.Parse2List(rbridge.Kw("a", rbridge.Kw("b", 1)))
	assert.ErrorIs(t, err, rbridge.ErrIllegalArgument)

	// validation happens before anything is sent to R
	assert.Equal(t, len(in.Trace()), 0)
}

func TestParse2ListForeignError(t *testing.T) {
	st, _ := newState(t)

	_, err := st.Parse2List(struct{}{})
	assert.ErrorIs(t, err, rbridge.ErrForeign)
}

func TestOptions(t *testing.T) {
	o := rbridge.Kw("b", 1, "a", 2)
	o.Set("c", 3).Set("b", 4)

	assert.Equal(t, o.Keys(), []string{"b", "a", "c"})
	assert.Equal(t, o.Len(), 3)
	assert.Equal(t, o.Fetch("b", 0), 4)
	assert.Equal(t, o.Fetch("x", 0), 0)

	o.Delete("a")
	assert.Equal(t, o.Keys(), []string{"b", "c"})

	_, ok := o.Get("a")
	assert.Expect(t, !ok, "deleted key should be missing")

	var empty *rbridge.Options
	assert.Equal(t, empty.Len(), 0)
}

func TestKwPanics(t *testing.T) {
	for _, pairs := range [][]interface{}{{"a"}, {1, 2}} {
		func() {
			defer func() {
				assert.Expect(t, recover() != nil, "Kw(%v) should panic", pairs)
			}()
			rbridge.Kw(pairs...)
		}()
	}
}
