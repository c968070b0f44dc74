/*package binsort sorts and bins Particles collections by numeric keys. It is
a bucketing engine, not a comparison sort: each particle is assigned a bin
from its key, per-bin counts and offsets are accumulated, and a permutation
vector is built which groups the particles of each bin together. The
permutation can either be applied to every field of the collection or
returned as metadata on its own.*/
package binsort

/* This file contains the data types describing the result of one binning or
sorting operation. */

import (
	"fmt"
)

// BinningData describes the outcome of one binning or sorting operation: how
// many particles each bin holds, where each bin starts in the binned layout,
// and which original particle ends up in each binned slot. A BinningData is
// a snapshot of a single operation. It is not updated if the collection is
// modified afterwards.
type BinningData struct {
	begin int
	counts []int
	offsets []int
	perm []int
}

// NewBinningData creates a BinningData from raw counts, offsets, and a
// permutation vector over the range beginning at begin. The counts and
// offsets arrays must have the same length, one entry per bin, and the
// permutation must contain one entry per binned particle.
func NewBinningData(
	counts, offsets, perm []int, begin int,
) (*BinningData, error) {
	if len(counts) != len(offsets) {
		return nil, fmt.Errorf("The counts array has length %d, but the offsets array has length %d.", len(counts), len(offsets))
	} else if begin < 0 {
		return nil, fmt.Errorf("The range start %d is negative.", begin)
	}

	n := 0
	for _, c := range counts {
		n += c
	}
	if n != len(perm) {
		return nil, fmt.Errorf("The bin counts sum to %d, but the permutation vector has length %d.", n, len(perm))
	}

	return &BinningData{ begin, counts, offsets, perm }, nil
}

// NumBin returns the number of bins.
func (bd *BinningData) NumBin() int { return len(bd.counts) }

// BinSize returns the number of particles in the given bin.
func (bd *BinningData) BinSize(bin int) int { return bd.counts[bin] }

// BinOffset returns the position in the binned layout at which the given bin
// starts. Offsets are relative to the start of the binned range, so the first
// particle of bin b sits at collection index Begin() + BinOffset(b).
func (bd *BinningData) BinOffset(bin int) int { return bd.offsets[bin] }

// Permutation returns the index in the old, unbinned layout of the particle
// which the binning placed at position Begin() + i of the binned layout.
func (bd *BinningData) Permutation(i int) int { return bd.perm[i] }

// Begin returns the collection index at which the binned range starts.
func (bd *BinningData) Begin() int { return bd.begin }

// Len returns the number of particles covered by the binned range.
func (bd *BinningData) Len() int { return len(bd.perm) }

// CartesianGrid3dBinningData describes the outcome of binning particles onto
// a regular 3d Cartesian grid. It wraps a linear BinningData and translates
// (i, j, k) cell indices into the cardinal bin indices the linear data is
// stored under, with the i index moving the slowest and the k index moving
// the fastest.
type CartesianGrid3dBinningData struct {
	data *BinningData
	nbin [3]int
}

// NewCartesianGrid3dBinningData wraps the linear binning data produced over a
// grid with the given per-axis bin counts. The linear data must have exactly
// nbin[0]*nbin[1]*nbin[2] bins.
func NewCartesianGrid3dBinningData(
	data *BinningData, nbin [3]int,
) (*CartesianGrid3dBinningData, error) {
	if data.NumBin() != nbin[0]*nbin[1]*nbin[2] {
		return nil, fmt.Errorf("The linear binning data has %d bins, but the grid dimensions (%d, %d, %d) require %d.", data.NumBin(), nbin[0], nbin[1], nbin[2], nbin[0]*nbin[1]*nbin[2])
	}
	return &CartesianGrid3dBinningData{ data, nbin }, nil
}

// TotalBins returns the total number of bins in the grid.
func (bd *CartesianGrid3dBinningData) TotalBins() int {
	return bd.nbin[0] * bd.nbin[1] * bd.nbin[2]
}

// NumBin returns the number of bins along the given axis.
func (bd *CartesianGrid3dBinningData) NumBin(dim int) int {
	return bd.nbin[dim]
}

// CardinalBinIndex returns the linear bin index of the grid cell (i, j, k).
// The i index moves the slowest and the k index moves the fastest.
func (bd *CartesianGrid3dBinningData) CardinalBinIndex(i, j, k int) int {
	return i*bd.nbin[1]*bd.nbin[2] + j*bd.nbin[2] + k
}

// BinSize returns the number of particles in the grid cell (i, j, k).
func (bd *CartesianGrid3dBinningData) BinSize(i, j, k int) int {
	return bd.data.BinSize(bd.CardinalBinIndex(i, j, k))
}

// BinOffset returns the position in the binned layout at which the grid cell
// (i, j, k) starts.
func (bd *CartesianGrid3dBinningData) BinOffset(i, j, k int) int {
	return bd.data.BinOffset(bd.CardinalBinIndex(i, j, k))
}

// Permutation returns the index in the old, unbinned layout of the particle
// which the binning placed at position Begin() + i of the binned layout.
func (bd *CartesianGrid3dBinningData) Permutation(i int) int {
	return bd.data.Permutation(i)
}

// Data1d returns the wrapped linear binning data.
func (bd *CartesianGrid3dBinningData) Data1d() *BinningData {
	return bd.data
}
