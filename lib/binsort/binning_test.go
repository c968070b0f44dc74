package binsort

import (
	"testing"

	"github.com/phil-mansfield/remora/lib/eq"
)

func TestNewBinningData(t *testing.T) {
	counts := []int{ 2, 0, 1 }
	offsets := []int{ 0, 2, 2 }
	perm := []int{ 1, 2, 0 }

	bd, err := NewBinningData(counts, offsets, perm, 0)
	if err != nil {
		t.Fatalf("Expected NewBinningData to succeed, got '%v'.", err)
	}

	if bd.NumBin() != 3 {
		t.Errorf("Expected bd.NumBin() = 3, got %d.", bd.NumBin())
	}
	if bd.Len() != 3 {
		t.Errorf("Expected bd.Len() = 3, got %d.", bd.Len())
	}
	if bd.Begin() != 0 {
		t.Errorf("Expected bd.Begin() = 0, got %d.", bd.Begin())
	}
	for b := range counts {
		if bd.BinSize(b) != counts[b] {
			t.Errorf("Expected bd.BinSize(%d) = %d, got %d.",
				b, counts[b], bd.BinSize(b))
		}
		if bd.BinOffset(b) != offsets[b] {
			t.Errorf("Expected bd.BinOffset(%d) = %d, got %d.",
				b, offsets[b], bd.BinOffset(b))
		}
	}
	for i := range perm {
		if bd.Permutation(i) != perm[i] {
			t.Errorf("Expected bd.Permutation(%d) = %d, got %d.",
				i, perm[i], bd.Permutation(i))
		}
	}
}

func TestNewBinningDataErrors(t *testing.T) {
	if _, err := NewBinningData(
		[]int{ 1 }, []int{ 0, 1 }, []int{ 0 }, 0,
	); err == nil {
		t.Errorf("Expected NewBinningData to fail when counts and offsets have different lengths.")
	}

	if _, err := NewBinningData(
		[]int{ 2 }, []int{ 0 }, []int{ 0 }, 0,
	); err == nil {
		t.Errorf("Expected NewBinningData to fail when the counts don't sum to the permutation length.")
	}

	if _, err := NewBinningData(
		[]int{ 1 }, []int{ 0 }, []int{ 0 }, -1,
	); err == nil {
		t.Errorf("Expected NewBinningData to fail on a negative range start.")
	}
}

func TestCartesianGrid3dBinningData(t *testing.T) {
	nbin := [3]int{ 2, 3, 4 }
	nTot := nbin[0] * nbin[1] * nbin[2]

	counts := make([]int, nTot)
	perm := make([]int, nTot)
	for i := range counts {
		counts[i] = 1
		perm[i] = i
	}
	offsets := binOffsets(counts)

	data, err := NewBinningData(counts, offsets, perm, 0)
	if err != nil {
		t.Fatalf("Expected NewBinningData to succeed, got '%v'.", err)
	}

	bd, err := NewCartesianGrid3dBinningData(data, nbin)
	if err != nil {
		t.Fatalf("Expected NewCartesianGrid3dBinningData to succeed, got '%v'.", err)
	}

	if bd.TotalBins() != nTot {
		t.Errorf("Expected bd.TotalBins() = %d, got %d.",
			nTot, bd.TotalBins())
	}
	for dim := 0; dim < 3; dim++ {
		if bd.NumBin(dim) != nbin[dim] {
			t.Errorf("Expected bd.NumBin(%d) = %d, got %d.",
				dim, nbin[dim], bd.NumBin(dim))
		}
	}
	if bd.Data1d() != data {
		t.Errorf("Expected bd.Data1d() to return the wrapped data.")
	}

	// Iterating with i slowest and k fastest must visit the bins in
	// increasing cardinal order.
	idx := 0
	for i := 0; i < nbin[0]; i++ {
		for j := 0; j < nbin[1]; j++ {
			for k := 0; k < nbin[2]; k++ {
				if bd.CardinalBinIndex(i, j, k) != idx {
					t.Errorf("Expected bd.CardinalBinIndex(%d, %d, %d) = %d, got %d.",
						i, j, k, idx, bd.CardinalBinIndex(i, j, k))
				}
				if bd.BinSize(i, j, k) != counts[idx] {
					t.Errorf("Expected bd.BinSize(%d, %d, %d) = %d, got %d.",
						i, j, k, counts[idx], bd.BinSize(i, j, k))
				}
				if bd.BinOffset(i, j, k) != offsets[idx] {
					t.Errorf("Expected bd.BinOffset(%d, %d, %d) = %d, got %d.",
						i, j, k, offsets[idx], bd.BinOffset(i, j, k))
				}
				if bd.Permutation(idx) != perm[idx] {
					t.Errorf("Expected bd.Permutation(%d) = %d, got %d.",
						idx, perm[idx], bd.Permutation(idx))
				}
				idx++
			}
		}
	}
}

func TestCartesianGrid3dBinningDataErrors(t *testing.T) {
	counts := []int{ 1, 1 }
	data, err := NewBinningData(counts, binOffsets(counts), []int{ 0, 1 }, 0)
	if err != nil {
		t.Fatalf("Expected NewBinningData to succeed, got '%v'.", err)
	}

	if _, err := NewCartesianGrid3dBinningData(
		data, [3]int{ 1, 1, 3 },
	); err == nil {
		t.Errorf("Expected NewCartesianGrid3dBinningData to fail when the cell counts don't match the linear bin count.")
	}
}

func TestBinOffsets(t *testing.T) {
	counts := []int{ 3, 0, 2, 1 }
	out := []int{ 0, 3, 3, 5 }

	if offsets := binOffsets(counts); !eq.Ints(out, offsets) {
		t.Errorf("Expected binOffsets(%v) = %v, got %v.", counts, out, offsets)
	}

	if offsets := binOffsets([]int{ }); len(offsets) != 0 {
		t.Errorf("Expected binOffsets of an empty histogram to be empty, got %v.", offsets)
	}
}
