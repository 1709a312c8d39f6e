package rbridge

import "fmt"

// Range is integer range on Go side. It converts to R seq(first, last).
type Range struct {
	first, last int
	excl        bool
}

// Span creates range which includes last value, first..last
func Span(first, last int) Range { return Range{first, last, false} }

// SpanExcl creates range which excludes last value, first...last
func SpanExcl(first, last int) Range { return Range{first, last, true} }

// Begin value of range
func (r Range) Begin() int { return r.first }

// End value of range, as given
func (r Range) End() int { return r.last }

// Exclusive is true if range excludes end value
func (r Range) Exclusive() bool { return r.excl }

// Final returns last value included in range
func (r Range) Final() int {
	if r.excl {
		return r.last - 1
	}
	return r.last
}

// Len returns number of values in range, 0 for empty ranges
func (r Range) Len() int {
	if n := r.Final() - r.first + 1; n > 0 {
		return n
	}
	return 0
}

// Neg returns range negated for R index dropping, -(first..last)
func (r Range) Neg() NegRange { return NegRange{r} }

func (r Range) String() string {
	if r.excl {
		return fmt.Sprintf("%d...%d", r.first, r.last)
	}
	return fmt.Sprintf("%d..%d", r.first, r.last)
}

// NegRange is negated range. In R, x[-(2:3)] drops elements 2 and 3, so
// NegRange converts to seq(-first, -final).
type NegRange struct{ Range }

func (r NegRange) String() string { return "-(" + r.Range.String() + ")" }
