package binio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/phil-mansfield/remora/lib/binsort"
	"github.com/phil-mansfield/remora/lib/particles"
)

// testBinningData bins a small reversed collection so the round-trip tests
// run on data the engine actually produced.
func testBinningData(t *testing.T) *binsort.BinningData {
	t.Helper()

	n := 100
	v := make([]int, n)
	keys := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = n - i - 1
		keys[i] = float64(n - i - 1)
	}
	p := particles.Particles{ "v": particles.NewInt("v", v) }

	engine := binsort.NewEngine(binsort.Exec{ })
	bd, err := engine.BinByKey(p, keys, 9, true)
	if err != nil {
		t.Fatalf("Expected BinByKey to succeed, got '%v'.", err)
	}
	return bd
}

func TestRoundTrip(t *testing.T) {
	bd := testBinningData(t)

	buf := &bytes.Buffer{ }
	err := Write(buf, bd)
	if err != nil {
		t.Fatalf("Expected Write to succeed, got '%v'.", err)
	}

	out, err := Read(buf)
	if err != nil {
		t.Fatalf("Expected Read to succeed, got '%v'.", err)
	}

	if out.NumBin() != bd.NumBin() {
		t.Errorf("Expected out.NumBin() = %d, got %d.",
			bd.NumBin(), out.NumBin())
	}
	if out.Len() != bd.Len() {
		t.Errorf("Expected out.Len() = %d, got %d.", bd.Len(), out.Len())
	}
	if out.Begin() != bd.Begin() {
		t.Errorf("Expected out.Begin() = %d, got %d.",
			bd.Begin(), out.Begin())
	}
	for b := 0; b < bd.NumBin(); b++ {
		if out.BinSize(b) != bd.BinSize(b) {
			t.Errorf("Expected out.BinSize(%d) = %d, got %d.",
				b, bd.BinSize(b), out.BinSize(b))
			return
		}
		if out.BinOffset(b) != bd.BinOffset(b) {
			t.Errorf("Expected out.BinOffset(%d) = %d, got %d.",
				b, bd.BinOffset(b), out.BinOffset(b))
			return
		}
	}
	for i := 0; i < bd.Len(); i++ {
		if out.Permutation(i) != bd.Permutation(i) {
			t.Errorf("Expected out.Permutation(%d) = %d, got %d.",
				i, bd.Permutation(i), out.Permutation(i))
			return
		}
	}
}

func TestReadErrors(t *testing.T) {
	bd := testBinningData(t)

	buf := &bytes.Buffer{ }
	err := Write(buf, bd)
	if err != nil {
		t.Fatalf("Expected Write to succeed, got '%v'.", err)
	}
	good := buf.Bytes()

	// Corrupt the magic number.
	bad := make([]byte, len(good))
	copy(bad, good)
	binary.LittleEndian.PutUint64(bad, 0xdeadbeef)
	if _, err := Read(bytes.NewReader(bad)); err == nil {
		t.Errorf("Expected Read to fail on a corrupt format code.")
	}

	// Corrupt the version.
	copy(bad, good)
	binary.LittleEndian.PutUint64(bad[8:], Version+1)
	if _, err := Read(bytes.NewReader(bad)); err == nil {
		t.Errorf("Expected Read to fail on an unknown version.")
	}

	// Truncate the payload.
	if _, err := Read(bytes.NewReader(good[:len(good)-4])); err == nil {
		t.Errorf("Expected Read to fail on a truncated file.")
	}
}
