/*package binio reads and writes binning results as compressed binary files.
Binning a large collection is expensive enough that downstream tools often
want the metadata without redoing the binning, so the counts, offsets, and
permutation vector of a BinningData can be written once and reloaded
later.*/
package binio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/remora/lib/binsort"
)

const (
	// BinningFormatCode identifies a binning data file.
	BinningFormatCode uint64 = 0xffffffff00000101
	// Version is the version of the file format. This can potentially be
	// used to differentiate between breaking changes to the format.
	Version uint64 = 0x1

	// compressionLevel is the zstd level the payload is written at. The
	// payload is mostly small monotonic integers, so cheap compression
	// already collapses it.
	compressionLevel = 1
)

// header is the fixed-size block at the start of a binning data file. All
// fields are little-endian.
type header struct {
	Magic, Version uint64
	NBin, N, Begin int64
	CompressedSize int64
}

// Write writes bd to wr as a zstd-compressed binary block.
func Write(wr io.Writer, bd *binsort.BinningData) error {
	nbin, n := bd.NumBin(), bd.Len()

	q := make([]int64, 2*nbin+n)
	for b := 0; b < nbin; b++ {
		q[b] = int64(bd.BinSize(b))
		q[nbin+b] = int64(bd.BinOffset(b))
	}
	for i := 0; i < n; i++ {
		q[2*nbin+i] = int64(bd.Permutation(i))
	}

	raw := &bytes.Buffer{ }
	err := binary.Write(raw, binary.LittleEndian, q)
	if err != nil { return err }

	buf, err := zstd.CompressLevel(nil, raw.Bytes(), compressionLevel)
	if err != nil { return err }

	hd := header{
		Magic: BinningFormatCode, Version: Version,
		NBin: int64(nbin), N: int64(n), Begin: int64(bd.Begin()),
		CompressedSize: int64(len(buf)),
	}
	err = binary.Write(wr, binary.LittleEndian, hd)
	if err != nil { return err }

	_, err = wr.Write(buf)
	return err
}

// Read reads the BinningData written to rd by Write.
func Read(rd io.Reader) (*binsort.BinningData, error) {
	hd := header{ }
	err := binary.Read(rd, binary.LittleEndian, &hd)
	if err != nil { return nil, err }

	if hd.Magic != BinningFormatCode {
		return nil, fmt.Errorf("The file starts with the code 0x%x instead of 0x%x, so it is not a binning data file.", hd.Magic, BinningFormatCode)
	} else if hd.Version != Version {
		return nil, fmt.Errorf("The file has format version %d, but this version of the library reads version %d.", hd.Version, Version)
	} else if hd.NBin < 0 || hd.N < 0 || hd.Begin < 0 ||
		hd.CompressedSize < 0 {
		return nil, fmt.Errorf("The file header contains a negative size field.")
	}

	buf := make([]byte, hd.CompressedSize)
	_, err = io.ReadFull(rd, buf)
	if err != nil { return nil, err }

	raw, err := zstd.Decompress(nil, buf)
	if err != nil { return nil, err }

	nbin, n := int(hd.NBin), int(hd.N)
	if len(raw) != 8*(2*nbin+n) {
		return nil, fmt.Errorf("The file's payload decompressed to %d bytes, but its header implies %d.", len(raw), 8*(2*nbin+n))
	}

	q := make([]int64, 2*nbin+n)
	err = binary.Read(bytes.NewReader(raw), binary.LittleEndian, q)
	if err != nil { return nil, err }

	counts, offsets := make([]int, nbin), make([]int, nbin)
	for b := 0; b < nbin; b++ {
		counts[b] = int(q[b])
		offsets[b] = int(q[nbin+b])
	}
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		perm[i] = int(q[2*nbin+i])
	}

	return binsort.NewBinningData(counts, offsets, perm, int(hd.Begin))
}
