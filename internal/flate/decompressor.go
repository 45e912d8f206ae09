package flate

import (
	"io"

	"github.com/gzrun/dgz/internal/bitio"
	"github.com/gzrun/dgz/internal/huffman"
)

// Decompress handles the common, one-shot case: it loops over
// dynamic-Huffman blocks until BFINAL, then returns the whole decoded
// member as a single slice. r must already be positioned at the first
// bit of the first block, i.e. past the container header.
func Decompress(r io.ByteReader) ([]byte, error) {
	br := bitio.NewReader(r)
	win := newGrowWindow()

	for blockIndex := 0; ; blockIndex++ {
		final, err := decodeOneBlock(br, blockIndex, win)
		if err != nil {
			return nil, err
		}
		if final {
			return win.Bytes(), nil
		}
	}
}

// decodeOneBlock reads one block's header, trees, and symbol stream
// (components E, F, B, C, G in sequence) and returns whether it was the
// final block.
func decodeOneBlock(br *bitio.Reader, blockIndex int, win window) (final bool, err error) {
	bfinal, err := br.ReadBits(1, false)
	if err != nil {
		return false, &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
	}
	btype, err := br.ReadBits(2, false)
	if err != nil {
		return false, &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
	}
	if btype != 2 {
		return false, &UnsupportedBlockTypeError{BlockIndex: blockIndex, BType: btype}
	}

	nlit, ndist, metaLengths, err := readCodeLengthAlphabet(br, blockIndex)
	if err != nil {
		return false, wrapLengthsErr(blockIndex, err)
	}
	metaTree, err := huffman.Build(metaLengths[:])
	if err != nil {
		return false, toCorruptLengths(blockIndex, err)
	}

	litlenLengths, distLengths, err := readLengths(br, blockIndex, nlit, ndist, metaTree)
	if err != nil {
		return false, err
	}

	litlenTree, err := huffman.Build(litlenLengths)
	if err != nil {
		return false, toCorruptLengths(blockIndex, err)
	}
	distTree, err := huffman.Build(distLengths)
	if err != nil {
		return false, toCorruptLengths(blockIndex, err)
	}

	if err := decodeBlock(br, blockIndex, litlenTree, distTree, win); err != nil {
		return false, err
	}

	return bfinal == 1, nil
}

func toCorruptLengths(blockIndex int, err error) error {
	if err == huffman.ErrCodeOverflow || err == huffman.ErrCollision {
		return &CorruptLengthsError{BlockIndex: blockIndex, Reason: err.Error()}
	}
	return err
}

func wrapLengthsErr(blockIndex int, err error) error {
	switch err.(type) {
	case *CorruptLengthsError, *UnsupportedBlockTypeError, *InvalidHuffmanCodeError, *BadBackReferenceError, *UnexpectedEndOfInputError:
		return err
	}
	return &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
}

// Checkpoint is a snapshot of decoder state sufficient to resume
// decoding without re-reading a member from the start:
// the input byte offset, the output byte offset, the bit accumulator,
// and the trailing window (at most 32768 bytes).
type Checkpoint struct {
	BlockIndex int
	In         int64
	Out        int64
	B          uint32
	NB         uint
	Hist       []byte
}

// Decompressor is the checkpointed counterpart to Decompress: it
// produces output incrementally via Read, and — when constructed with a
// non-nil updates channel — emits a Checkpoint on that channel every
// time more than span bytes have been produced since the last one. This
// is what backs the random-access reader.
type Decompressor struct {
	br         *bitio.Reader
	win        *ringWindow
	blockIndex int
	out        int64
	err        error
	toRead     []byte

	updates chan<- *Checkpoint
	span    int64
	last    int64
}

// NewDecompressor starts decoding r from the first bit of the first
// block, as Decompress does, but incrementally.
func NewDecompressor(r io.ByteReader, span int64, updates chan<- *Checkpoint) *Decompressor {
	return &Decompressor{
		br:      bitio.NewReader(r),
		win:     newRingWindow(),
		updates: updates,
		span:    span,
	}
}

// Continue resumes decoding from a Checkpoint taken by a prior
// Decompressor, reading from r starting at the checkpoint's input
// offset (the caller is responsible for seeking r there, e.g. via
// io.NewSectionReader).
func Continue(r io.ByteReader, from *Checkpoint, span int64, updates chan<- *Checkpoint) *Decompressor {
	br := bitio.NewReader(r)
	br.SetState(from.B, from.NB)
	return &Decompressor{
		br:         br,
		win:        restoreRingWindow(from.Hist),
		blockIndex: from.BlockIndex,
		out:        from.Out,
		last:       from.Out,
		updates:    updates,
		span:       span,
	}
}

// Offset reports the number of decoded bytes produced so far, for
// callers that need to position this Decompressor's output against an
// absolute stream offset.
func (d *Decompressor) Offset() int64 {
	return d.out
}

func (d *Decompressor) Read(p []byte) (int, error) {
	for {
		if len(d.toRead) > 0 {
			n := copy(p, d.toRead)
			d.toRead = d.toRead[n:]
			return n, nil
		}
		if d.err != nil {
			return 0, d.err
		}
		d.step()
	}
}

func (d *Decompressor) step() {
	d.win.StartCapture()
	final, err := decodeOneBlock(d.br, d.blockIndex, d.win)
	produced := d.win.StopCapture()

	d.out += int64(len(produced))
	d.toRead = produced

	if err != nil {
		d.err = err
		return
	}

	if final {
		d.err = io.EOF
	}

	if d.updates != nil && d.out-d.last > d.span {
		cp := &Checkpoint{
			BlockIndex: d.blockIndex + 1,
			In:         d.br.BytesRead(),
			Out:        d.out,
			Hist:       d.win.snapshot(),
		}
		cp.B, cp.NB = d.br.State()
		d.updates <- cp
		d.last = d.out
	}

	d.blockIndex++
}
