// Package bitio implements the LSB-first bit-level reader the DEFLATE
// decoder needs: every multi-bit integer field in a dynamic Huffman block
// (HLIT, HDIST, HCLEN, extra bits, RLE repeat counts) is packed least
// significant bit first within each byte.
package bitio

import "io"

// Reader buffers bits read from an underlying byte stream, delivering
// them LSB-first: the first bit read becomes bit 0 of the returned
// value, the second becomes bit 1, and so on.
type Reader struct {
	r  io.ByteReader
	b  uint32 // bit accumulator, buffered bits in the low end
	nb uint   // number of valid bits currently in b
	n  int64  // count of bytes successfully pulled from r
}

// NewReader wraps r for bit-at-a-time reading.
func NewReader(r io.ByteReader) *Reader {
	return &Reader{r: r}
}

// BytesRead returns the number of bytes pulled from the underlying
// io.ByteReader so far, regardless of how many of their bits have
// actually been consumed by ReadBits. A Checkpoint records this as the
// input offset to resume from.
func (r *Reader) BytesRead() int64 {
	return r.n
}

// State returns the bit accumulator and its fill count, for embedding in
// a Checkpoint.
func (r *Reader) State() (uint32, uint) {
	return r.b, r.nb
}

// SetState restores a bit accumulator and fill count previously returned
// by State, as when resuming from a Checkpoint.
func (r *Reader) SetState(b uint32, nb uint) {
	r.b, r.nb = b, nb
}

// ReadBits reads n bits (0 <= n <= 16), LSB-first, refilling the
// accumulator a byte at a time as needed. If keep is true the bits are
// returned but left in the buffer, so a later call can re-read them.
func (r *Reader) ReadBits(n int, keep bool) (uint32, error) {
	for r.nb < uint(n) {
		c, err := r.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		r.b |= uint32(c) << r.nb
		r.nb += 8
		r.n++
	}
	v := r.b & (1<<uint(n) - 1)
	if !keep {
		r.b >>= uint(n)
		r.nb -= uint(n)
	}
	return v, nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint32, error) {
	return r.ReadBits(1, false)
}
