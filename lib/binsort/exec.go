package binsort

/* exec.go wraps the data-parallel scheduling the engine's phases run on.
Every phase either maps an operation over an index range or reduces one, and
each call returns only once all of its batch goroutines have finished, which
is the barrier later phases rely on. The scheduler's callbacks don't return
errors, so the wrappers collect batch errors themselves and hand the engine
the first one. */

import (
	"sync"

	"github.com/exascience/pargo/parallel"
)

// Exec configures how the engine schedules its data-parallel phases. The
// zero value is a usable default. An Exec is passed to NewEngine explicitly
// rather than read from global state, so different collections can be
// processed with different schedules in the same program.
type Exec struct {
	// Batches is the number of batches index ranges are divided into
	// before being handed to worker goroutines. If Batches is 0, a default
	// based on runtime.GOMAXPROCS is used.
	Batches int
}

// rangeOver invokes f over batches of [low, high) in parallel and returns
// once every batch has finished. If any batch fails, one of the batch
// errors is returned.
func (e Exec) rangeOver(low, high int, f func(low, high int) error) error {
	var mu sync.Mutex
	var firstErr error

	parallel.Range(low, high, e.Batches, func(low, high int) {
		err := f(low, high)
		if err != nil {
			mu.Lock()
			if firstErr == nil { firstErr = err }
			mu.Unlock()
		}
	})

	return firstErr
}

// reduceResult carries a batch's reduction value together with its error
// through the scheduler, which only passes single values between batches.
type reduceResult struct {
	value interface{}
	err error
}

// rangeReduce reduces batches of [low, high) with reduce in parallel,
// combining the batch results pairwise with pair, and returns once every
// batch has finished. If any reduce or pair call fails, one of the errors
// is returned and the combined value is meaningless.
func (e Exec) rangeReduce(
	low, high int,
	reduce func(low, high int) (interface{}, error),
	pair func(x, y interface{}) (interface{}, error),
) (interface{}, error) {
	res := parallel.RangeReduce(low, high, e.Batches,
		func(low, high int) interface{} {
			value, err := reduce(low, high)
			return reduceResult{ value, err }
		},
		func(x, y interface{}) interface{} {
			rx, ry := x.(reduceResult), y.(reduceResult)
			if rx.err != nil {
				return rx
			} else if ry.err != nil {
				return ry
			}
			value, err := pair(rx.value, ry.value)
			return reduceResult{ value, err }
		})

	r := res.(reduceResult)
	return r.value, r.err
}
