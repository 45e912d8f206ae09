package flate

import "fmt"

// UnsupportedBlockTypeError reports a BTYPE other than 2 (dynamic
// Huffman), which this decoder deliberately never implements (see
// non-goals: stored and fixed-Huffman blocks are out of scope for the
// core).
type UnsupportedBlockTypeError struct {
	BlockIndex int
	BType      uint32
}

func (e *UnsupportedBlockTypeError) Error() string {
	return fmt.Sprintf("flate: block %d: unsupported BTYPE %d", e.BlockIndex, e.BType)
}

// CorruptLengthsError reports a code-length RLE stream that over- or
// under-runs its expected entry count, or a repeat code (16) with no
// prior length to repeat, or a canonical code assignment that overflows.
type CorruptLengthsError struct {
	BlockIndex int
	Reason     string
}

func (e *CorruptLengthsError) Error() string {
	return fmt.Sprintf("flate: block %d: corrupt code lengths: %s", e.BlockIndex, e.Reason)
}

// InvalidHuffmanCodeError reports a bit walk that reached a dead end in
// a decoder tree.
type InvalidHuffmanCodeError struct {
	BlockIndex int
}

func (e *InvalidHuffmanCodeError) Error() string {
	return fmt.Sprintf("flate: block %d: invalid Huffman code", e.BlockIndex)
}

// BadBackReferenceError reports a back-reference whose distance exceeds
// the output produced so far.
type BadBackReferenceError struct {
	Distance  int
	Available int
}

func (e *BadBackReferenceError) Error() string {
	return fmt.Sprintf("flate: back-reference distance %d exceeds %d bytes of output", e.Distance, e.Available)
}

// UnexpectedEndOfInputError reports the bit reader failing to satisfy a
// read before the stream ended.
type UnexpectedEndOfInputError struct {
	BlockIndex int
	Err        error
}

func (e *UnexpectedEndOfInputError) Error() string {
	return fmt.Sprintf("flate: block %d: unexpected end of input: %v", e.BlockIndex, e.Err)
}

func (e *UnexpectedEndOfInputError) Unwrap() error {
	return e.Err
}
