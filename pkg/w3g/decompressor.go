package w3g

import (
	"bytes"
	"context"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/sync/errgroup"
)

// compressedBlock is one data block as laid out after the header:
//   - Offset 0x00: Compressed size (1 word)
//   - Offset 0x02: Decompressed size (1 word)
//   - Offset 0x04: Checksum (1 dword)
//   - Offset 0x08: Compressed data (compressed_size bytes, raw deflate)
type compressedBlock struct {
	index            int
	offset           int
	compressedSize   int
	decompressedSize int
	checksum         uint32
	payload          []byte
}

// splitBlocks slices count blocks off c without decompressing them.
func splitBlocks(c *Cursor, count uint32) ([]compressedBlock, error) {
	// count comes from the file; every block needs at least its header.
	blocks := make([]compressedBlock, 0, min(int(count), c.Remaining()/BlockHeaderSize))
	for i := 0; i < int(count); i++ {
		b := compressedBlock{index: i, offset: c.Pos()}
		compressed, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		decompressed, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		if b.checksum, err = c.Uint32(); err != nil {
			return nil, err
		}
		if b.payload, err = c.ReadBytes(int(compressed)); err != nil {
			return nil, err
		}
		b.compressedSize = int(compressed)
		b.decompressedSize = int(decompressed)
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// decompressBlocks inflates blocks on at most workers goroutines and
// returns their concatenation in block order.
func decompressBlocks(ctx context.Context, blocks []compressedBlock, workers int) ([]byte, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([][]byte, len(blocks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range blocks {
		b := &blocks[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := decompressBlock(b)
			if err != nil {
				return err
			}
			results[b.index] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	stream := make([]byte, 0, total)
	for _, r := range results {
		stream = append(stream, r...)
	}
	return stream, nil
}

func decompressBlock(b *compressedBlock) ([]byte, error) {
	out, err := decompressDeflate(b.payload)
	if err != nil && len(b.payload) >= 2 && isZlibHeader(b.payload[0], b.payload[1]) {
		// Fallback to zlib with header
		out, err = decompressZlib(b.payload)
	}
	if err != nil {
		return nil, newDecompressionError(b.index, err, b.offset)
	}
	if len(out) != b.decompressedSize {
		return nil, newSizeMismatchError(b.index, b.decompressedSize, len(out), b.offset)
	}
	return out, nil
}

// isZlibHeader reports whether the two bytes form a valid zlib header
// (deflate method, window <= 32K, FCHECK consistent).
func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0F == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// decompressDeflate decompresses data using raw deflate (no header).
func decompressDeflate(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	return io.ReadAll(r)
}

// decompressZlib decompresses data using zlib (with header). Some writers
// omit the adler32 trailer, so an unexpected EOF after data was produced
// is accepted.
func decompressZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var result bytes.Buffer
	if _, err := io.Copy(&result, r); err != nil {
		if err == io.ErrUnexpectedEOF && result.Len() > 0 {
			return result.Bytes(), nil
		}
		return nil, err
	}
	return result.Bytes(), nil
}
