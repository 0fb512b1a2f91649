// Package bench implements the fixed workload behind GET /performance.
//
// The workload is a summation loop over a constant range. It exists to give
// otherwise identical backends a comparable, non-zero processing time under
// load; it is not a benchmark of anything in particular.
package bench

import (
	"time"
)

// Iterations is the size of the summation range [0, Iterations)
const Iterations = 100000

// Sum adds the integers 0..n-1. Unsigned arithmetic wraps on overflow.
func Sum(n uint64) uint64 {
	var result uint64
	for i := uint64(0); i < n; i++ {
		result += i
	}
	return result
}

// Result holds the outcome of one run
type Result struct {
	Value   uint64
	Elapsed time.Duration
}

// Micros returns the elapsed time in whole microseconds
func (r Result) Micros() int64 {
	if r.Elapsed < 0 {
		return 0
	}
	return r.Elapsed.Microseconds()
}

// Run times a single summation over the fixed range. Only the loop is
// measured.
func Run() Result {
	start := time.Now()
	v := Sum(Iterations)
	return Result{
		Value:   v,
		Elapsed: time.Since(start),
	}
}
