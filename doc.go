// Package rbridge lets Go code call into an embedded R interpreter.
//
// The bridge marshals Go arguments into R call arguments, builds R calls,
// and routes calls of names unknown on the Go side to R functions.
// To get started, open a state over one of the registered backends:
//
//	import _ "github.com/oruby/rbridge/rscript"
//
//	st, err := rbridge.Open("rscript", rbridge.DefaultConfig())
//	defer st.Close()
//
// From then on R functions are called by name. This Go code:
//
//	x, err := st.R("c", 1, 2, 3, rbridge.Span(7, 9))
//	m, err := x.Call("mean", rbridge.Kw("na__rm", true))
//
// is equivalent to R:
//
//	x <- c(1, 2, 3, 7:9)
//	m <- mean(x, na.rm = TRUE)
//
// R names with a dot are written with double underscore on Go side, so
// is__na is R is.na, and rclass stands for R class. Go integers are passed
// as R doubles, ranges as R sequences and rbridge.All as empty argument,
// as in x[, 1]. Keyword options (rbridge.Kw) are valid only as the last
// argument.
//
// Results are wrapped in *Object, which owns the R value and forwards
// further calls to R with itself as first argument. Internal calls
// (ProcessMissing with internal set) return raw Value for chaining
// without wrapping.
//
// The bridge itself holds no locks. An R interpreter is single threaded
// and a State must be used from one goroutine at a time.
package rbridge
