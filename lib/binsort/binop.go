package binsort

/* binop.go contains the operators that assign particles to bins. LinearBinOp
and CartesianBinOp3d are the built-in operators. Callers with non-uniform or
domain-specific binning schemes can pass their own BinOp implementation to the
engine's WithOp entry points. */

import (
	"math"
)

// BinOp assigns each particle of a collection to a bin based on its key. The
// operator is indexed by absolute particle index, so implementations hold
// their own reference to the key array.
type BinOp interface {
	// NumBin returns the total number of bins the operator assigns to.
	// Every value Bin returns must be in [0, NumBin).
	NumBin() int
	// Bin returns the bin of particle i.
	Bin(i int) int
	// Less orders two particles by their keys. It is only called when
	// sorting within bins, so operators used purely for binning may order
	// arbitrarily.
	Less(i, j int) bool
}

// Type assertions
var (
	_ BinOp = &LinearBinOp{ }
	_ BinOp = &CartesianBinOp3d{ }
)

// LinearBinOp assigns bins by dividing the key range [min, max) into nbin
// equal-width bins, with one additional bin on top holding the keys equal to
// max, so NumBin returns nbin + 1. Keys below min or above max are clamped
// into the bottom and top bins. When max <= min every key maps to bin 0
// rather than dividing by zero.
type LinearBinOp struct {
	keys []float64
	nbin int
	min, max float64
}

// NewLinearBinOp creates a LinearBinOp over the given keys with nbin
// equal-width divisions of the range [min, max].
func NewLinearBinOp(keys []float64, nbin int, min, max float64) *LinearBinOp {
	return &LinearBinOp{ keys, nbin, min, max }
}

func (op *LinearBinOp) NumBin() int { return op.nbin + 1 }

func (op *LinearBinOp) Bin(i int) int {
	if op.max <= op.min { return 0 }

	b := int(math.Floor(float64(op.nbin) * (op.keys[i] - op.min) /
		(op.max - op.min)))
	if b < 0 {
		b = 0
	} else if b > op.nbin {
		b = op.nbin
	}

	return b
}

func (op *LinearBinOp) Less(i, j int) bool { return op.keys[i] < op.keys[j] }

// CartesianBinOp3d assigns bins on a regular 3d Cartesian grid by composing
// three independent linear assignments, one per axis, each with its own bin
// count and bounds. Unlike LinearBinOp, the per-axis bin counts are exact:
// a position on the upper bound of an axis is clamped into the last bin of
// that axis, as is any position beyond it. The composed bin index orders the
// i index slowest and the k index fastest.
type CartesianBinOp3d struct {
	keys [][3]float64
	nbin [3]int
	min, max [3]float64
}

// NewCartesianBinOp3d creates a CartesianBinOp3d over the given position
// keys with the given per-axis bin counts and bounds.
func NewCartesianBinOp3d(
	keys [][3]float64, nbin [3]int, min, max [3]float64,
) *CartesianBinOp3d {
	return &CartesianBinOp3d{ keys, nbin, min, max }
}

func (op *CartesianBinOp3d) NumBin() int {
	return op.nbin[0] * op.nbin[1] * op.nbin[2]
}

// dimBin returns the bin of particle i along a single axis.
func (op *CartesianBinOp3d) dimBin(i, dim int) int {
	if op.max[dim] <= op.min[dim] { return 0 }

	b := int(math.Floor(float64(op.nbin[dim]) *
		(op.keys[i][dim] - op.min[dim]) / (op.max[dim] - op.min[dim])))
	if b < 0 {
		b = 0
	} else if b >= op.nbin[dim] {
		b = op.nbin[dim] - 1
	}

	return b
}

func (op *CartesianBinOp3d) Bin(i int) int {
	return op.dimBin(i, 0)*op.nbin[1]*op.nbin[2] +
		op.dimBin(i, 1)*op.nbin[2] + op.dimBin(i, 2)
}

func (op *CartesianBinOp3d) Less(i, j int) bool {
	return op.Bin(i) < op.Bin(j)
}

// Grid3d describes a regular 3d Cartesian grid of bins by its cell sizes and
// its per-axis bounds. Grids are caller-supplied: the bounds are never
// derived from the particle data.
type Grid3d struct {
	// Dx, Dy, and Dz are the cell sizes along each axis.
	Dx, Dy, Dz float64
	// Min and Max are the lower and upper grid bounds along each axis.
	Min, Max [3]float64
}

// NBin returns the number of cells along each axis, truncating when the cell
// size does not evenly divide the axis span. A particle exactly on the upper
// bound of an axis therefore lands outside the last cell and is clamped back
// into it by CartesianBinOp3d.
func (g *Grid3d) NBin() [3]int {
	return [3]int{
		int(math.Floor((g.Max[0] - g.Min[0]) / g.Dx)),
		int(math.Floor((g.Max[1] - g.Min[1]) / g.Dy)),
		int(math.Floor((g.Max[2] - g.Min[2]) / g.Dz)),
	}
}
