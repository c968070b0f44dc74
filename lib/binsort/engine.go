package binsort

/* engine.go contains the binning engine and the public sorting and binning
entry points. Every operation runs the same strictly ordered phases: resolve
the key bounds (when binning over an equal-width key range), assign each
particle a bin, count the bins, turn the counts into offsets with an
exclusive prefix sum, fill the permutation vector, optionally sort each bin's
slots by key, and optionally gather every field of the collection through the
permutation. */

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/remora/lib/particles"
)

// Engine computes and applies bin-sortings of Particles collections. An
// Engine holds no state between calls other than its execution
// configuration, so a single Engine may be shared freely, although two calls
// must not touch overlapping ranges of the same collection at the same time.
type Engine struct {
	exec Exec
}

// NewEngine creates an Engine which schedules its parallel phases according
// to exec.
func NewEngine(exec Exec) *Engine {
	return &Engine{ exec }
}

// keyMinMax returns the minimum and maximum of keys over [begin, end). The
// caller must guarantee begin < end.
func (e *Engine) keyMinMax(
	keys []float64, begin, end int,
) (min, max float64, err error) {
	bounds, err := e.exec.rangeReduce(begin, end,
		func(low, high int) (interface{}, error) {
			batch := keys[low:high]
			return [2]float64{ floats.Min(batch), floats.Max(batch) }, nil
		},
		func(x, y interface{}) (interface{}, error) {
			bx, by := x.([2]float64), y.([2]float64)
			return [2]float64{
				math.Min(bx[0], by[0]), math.Max(bx[1], by[1]),
			}, nil
		})
	if err != nil { return 0, 0, err }

	b := bounds.([2]float64)
	return b[0], b[1], nil
}

// assignBins returns the bin of each particle in [begin, end), indexed
// relative to begin, and fails if the operator assigns a bin outside
// [0, NumBin).
func (e *Engine) assignBins(op BinOp, begin, end int) ([]int, error) {
	nbin := op.NumBin()
	bins := make([]int, end-begin)

	err := e.exec.rangeOver(begin, end, func(low, high int) error {
		for i := low; i < high; i++ {
			b := op.Bin(i)
			if b < 0 || b >= nbin {
				return fmt.Errorf("The bin operator assigned particle %d to bin %d, which is outside the valid range [0, %d).", i, b, nbin)
			}
			bins[i-begin] = b
		}
		return nil
	})
	if err != nil { return nil, err }

	return bins, nil
}

// countBins returns a histogram of bins. Each batch accumulates its own
// counts, which are then merged pairwise.
func (e *Engine) countBins(bins []int, nbin int) ([]int, error) {
	counts, err := e.exec.rangeReduce(0, len(bins),
		func(low, high int) (interface{}, error) {
			batch := make([]int, nbin)
			for _, b := range bins[low:high] {
				batch[b]++
			}
			return batch, nil
		},
		func(x, y interface{}) (interface{}, error) {
			cx, cy := x.([]int), y.([]int)
			for i := range cx {
				cx[i] += cy[i]
			}
			return cx, nil
		})
	if err != nil { return nil, err }

	return counts.([]int), nil
}

// binOffsets returns the exclusive prefix sum of counts: the position in the
// binned layout at which each bin starts.
func binOffsets(counts []int) []int {
	offsets := make([]int, len(counts))
	sum := 0
	for i, c := range counts {
		offsets[i] = sum
		sum += c
	}
	return offsets
}

// permuteVector fills the permutation vector by sweeping the particles in
// their original order and writing each one into the next free slot of its
// bin, so within a bin the slots preserve the original particle order.
func permuteVector(bins, offsets []int, begin int) []int {
	perm := make([]int, len(bins))
	next := make([]int, len(offsets))
	copy(next, offsets)

	for i, b := range bins {
		perm[next[b]] = begin + i
		next[b]++
	}

	return perm
}

// sortWithinBins orders the slots of each bin by key. Ties keep the original
// particle order. Bins occupy disjoint slices of perm, so they are sorted in
// parallel.
func (e *Engine) sortWithinBins(
	perm, offsets, counts []int, op BinOp,
) error {
	return e.exec.rangeOver(0, len(counts), func(low, high int) error {
		for b := low; b < high; b++ {
			slots := perm[offsets[b] : offsets[b]+counts[b]]
			sort.SliceStable(slots, func(i, j int) bool {
				return op.Less(slots[i], slots[j])
			})
		}
		return nil
	})
}

// ApplyPermutation reorders the fields of p according to a previously
// computed BinningData, gathering every field through the same permutation so
// that each particle's values all move to its new position together.
// ApplyPermutation returns only once every field has been reordered.
func (e *Engine) ApplyPermutation(
	p particles.Particles, bd *BinningData,
) error {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	return e.exec.rangeOver(0, len(names), func(low, high int) error {
		for i := low; i < high; i++ {
			err := p[names[i]].Gather(bd.perm, bd.begin)
			if err != nil {
				return fmt.Errorf("Cannot reorder the field '%s': %v", names[i], err)
			}
		}
		return nil
	})
}

// binSort runs the engine's phases over [begin, end) of p with the given bin
// operator. If sortWithinBins is set, the slots of each bin are further
// ordered by key. Unless createDataOnly is set, the resulting permutation is
// applied to every field of p before returning.
func (e *Engine) binSort(
	p particles.Particles, op BinOp,
	createDataOnly, sortWithinBins bool, begin, end int,
) (*BinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	if begin < 0 || begin > end || end > size {
		return nil, fmt.Errorf("Cannot bin the range [%d, %d) of a collection with %d particles.", begin, end, size)
	}

	nbin := op.NumBin()
	if nbin < 0 {
		return nil, fmt.Errorf("The bin operator reports a negative bin count, %d.", nbin)
	}

	// An empty range still yields well-formed binning data, just with every
	// bin empty. No phase needs to run.
	if begin == end {
		return NewBinningData(
			make([]int, nbin), make([]int, nbin), []int{ }, begin,
		)
	}

	bins, err := e.assignBins(op, begin, end)
	if err != nil { return nil, err }

	counts, err := e.countBins(bins, nbin)
	if err != nil { return nil, err }

	offsets := binOffsets(counts)
	perm := permuteVector(bins, offsets, begin)

	if sortWithinBins {
		err = e.sortWithinBins(perm, offsets, counts, op)
		if err != nil { return nil, err }
	}

	bd, err := NewBinningData(counts, offsets, perm, begin)
	if err != nil { return nil, err }

	if !createDataOnly {
		err = e.ApplyPermutation(p, bd)
		if err != nil { return nil, err }
	}

	return bd, nil
}

// checkKeys fails if keys does not supply one key per particle of p.
func checkKeys(p particles.Particles, n int) error {
	size, err := p.Size()
	if err != nil { return err }
	if n != size {
		return fmt.Errorf("A key is needed for every particle, but %d keys were given for a collection with %d particles.", n, size)
	}
	return nil
}

// SortByKeyRange sorts the particles of p in the range [begin, end) into
// non-decreasing key order. The sort buckets the key range into
// (end-begin)/2 equal-width bins and then orders the particles within each
// bin, which produces a fully sorted range while staying a bucketing
// algorithm. One key per particle of p is required, indexed by absolute
// particle index.
func (e *Engine) SortByKeyRange(
	p particles.Particles, keys []float64, begin, end int,
) (*BinningData, error) {
	err := checkKeys(p, len(keys))
	if err != nil { return nil, err }

	nbin := (end - begin) / 2
	min, max := 0.0, 0.0
	if begin < end && begin >= 0 && end <= len(keys) {
		min, max, err = e.keyMinMax(keys, begin, end)
		if err != nil { return nil, err }
	}

	op := NewLinearBinOp(keys, nbin, min, max)
	return e.binSort(p, op, false, true, begin, end)
}

// SortByKey sorts all the particles of p into non-decreasing key order. See
// SortByKeyRange.
func (e *Engine) SortByKey(
	p particles.Particles, keys []float64,
) (*BinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	return e.SortByKeyRange(p, keys, 0, size)
}

// BinByKeyRange bins the particles of p in the range [begin, end) by key,
// dividing the key range into nbin equal widths plus one extra bin on top
// for the keys equal to the maximum, as described on LinearBinOp. The
// particles of a bin are grouped together but not ordered within the bin.
// If createDataOnly is set, the binning data is returned without reordering
// the collection.
func (e *Engine) BinByKeyRange(
	p particles.Particles, keys []float64, nbin int,
	createDataOnly bool, begin, end int,
) (*BinningData, error) {
	if nbin < 0 {
		return nil, fmt.Errorf("The bin count %d is negative.", nbin)
	}
	err := checkKeys(p, len(keys))
	if err != nil { return nil, err }

	min, max := 0.0, 0.0
	if begin < end && begin >= 0 && end <= len(keys) {
		min, max, err = e.keyMinMax(keys, begin, end)
		if err != nil { return nil, err }
	}

	op := NewLinearBinOp(keys, nbin, min, max)
	return e.binSort(p, op, createDataOnly, false, begin, end)
}

// BinByKey bins all the particles of p by key. See BinByKeyRange.
func (e *Engine) BinByKey(
	p particles.Particles, keys []float64, nbin int, createDataOnly bool,
) (*BinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	return e.BinByKeyRange(p, keys, nbin, createDataOnly, 0, size)
}

// SortByKeyWithOpRange sorts the particles of p in the range [begin, end)
// with a caller-supplied bin operator: particles are grouped by op.Bin and
// ordered within each bin by op.Less, and the permutation is applied to the
// collection.
func (e *Engine) SortByKeyWithOpRange(
	p particles.Particles, op BinOp, begin, end int,
) (*BinningData, error) {
	return e.binSort(p, op, false, true, begin, end)
}

// SortByKeyWithOp sorts all the particles of p with a caller-supplied bin
// operator. See SortByKeyWithOpRange.
func (e *Engine) SortByKeyWithOp(
	p particles.Particles, op BinOp,
) (*BinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	return e.SortByKeyWithOpRange(p, op, 0, size)
}

// BinByKeyWithOpRange bins the particles of p in the range [begin, end) with
// a caller-supplied bin operator. The particles of a bin are grouped
// together but not ordered within the bin. If createDataOnly is set, the
// binning data is returned without reordering the collection.
func (e *Engine) BinByKeyWithOpRange(
	p particles.Particles, op BinOp, createDataOnly bool, begin, end int,
) (*BinningData, error) {
	return e.binSort(p, op, createDataOnly, false, begin, end)
}

// BinByKeyWithOp bins all the particles of p with a caller-supplied bin
// operator. See BinByKeyWithOpRange.
func (e *Engine) BinByKeyWithOp(
	p particles.Particles, op BinOp, createDataOnly bool,
) (*BinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	return e.BinByKeyWithOpRange(p, op, createDataOnly, 0, size)
}

// SortByMemberRange sorts the particles of p in the range [begin, end) into
// non-decreasing order of the scalar field with the given name. The field is
// copied into a temporary key array first, so the sort sees a consistent
// snapshot of it even though the field itself is reordered.
func (e *Engine) SortByMemberRange(
	p particles.Particles, name string, begin, end int,
) (*BinningData, error) {
	keys, err := memberKeys(p, name)
	if err != nil { return nil, err }
	return e.SortByKeyRange(p, keys, begin, end)
}

// SortByMember sorts all the particles of p by the scalar field with the
// given name. See SortByMemberRange.
func (e *Engine) SortByMember(
	p particles.Particles, name string,
) (*BinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	return e.SortByMemberRange(p, name, 0, size)
}

// BinByMemberRange bins the particles of p in the range [begin, end) by the
// scalar field with the given name, using nbin equal-width divisions of the
// field's value range as in BinByKeyRange.
func (e *Engine) BinByMemberRange(
	p particles.Particles, name string, nbin int,
	createDataOnly bool, begin, end int,
) (*BinningData, error) {
	keys, err := memberKeys(p, name)
	if err != nil { return nil, err }
	return e.BinByKeyRange(p, keys, nbin, createDataOnly, begin, end)
}

// BinByMember bins all the particles of p by the scalar field with the given
// name. See BinByMemberRange.
func (e *Engine) BinByMember(
	p particles.Particles, name string, nbin int, createDataOnly bool,
) (*BinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	return e.BinByMemberRange(p, name, nbin, createDataOnly, 0, size)
}

// memberKeys copies the named scalar field of p into a key array.
func memberKeys(p particles.Particles, name string) ([]float64, error) {
	f, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("The collection does not contain the field '%s'.", name)
	}
	return particles.FieldKeys(f)
}

// BinByCartesianGrid3dRange spatially bins the particles of p in the range
// [begin, end) onto the cells of grid, using the 3-vector field with the
// given name as particle positions. The position field is copied into a
// temporary key array before binning. Cell indices order the i (x) index
// slowest and the k (z) index fastest, and positions on or beyond a grid
// bound are clamped into the boundary cell along that axis.
func (e *Engine) BinByCartesianGrid3dRange(
	p particles.Particles, name string, grid *Grid3d,
	createDataOnly bool, begin, end int,
) (*CartesianGrid3dBinningData, error) {
	if grid.Dx <= 0 || grid.Dy <= 0 || grid.Dz <= 0 {
		return nil, fmt.Errorf("The grid cell sizes (%g, %g, %g) must all be positive.", grid.Dx, grid.Dy, grid.Dz)
	}
	nbin := grid.NBin()
	for dim := 0; dim < 3; dim++ {
		if nbin[dim] < 0 {
			return nil, fmt.Errorf("The grid has a negative cell count, %d, along axis %d: its bounds are reversed.", nbin[dim], dim)
		}
	}

	f, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("The collection does not contain the field '%s'.", name)
	}
	keys, err := particles.FieldVecKeys(f)
	if err != nil { return nil, err }
	err = checkKeys(p, len(keys))
	if err != nil { return nil, err }

	op := NewCartesianBinOp3d(keys, nbin, grid.Min, grid.Max)
	bd, err := e.binSort(p, op, createDataOnly, false, begin, end)
	if err != nil { return nil, err }

	return NewCartesianGrid3dBinningData(bd, nbin)
}

// BinByCartesianGrid3d spatially bins all the particles of p onto the cells
// of grid. See BinByCartesianGrid3dRange.
func (e *Engine) BinByCartesianGrid3d(
	p particles.Particles, name string, grid *Grid3d, createDataOnly bool,
) (*CartesianGrid3dBinningData, error) {
	size, err := p.Size()
	if err != nil { return nil, err }
	return e.BinByCartesianGrid3dRange(p, name, grid, createDataOnly, 0, size)
}
