package dgz

import (
	"errors"

	"github.com/gzrun/dgz/internal/flate"
	"github.com/gzrun/dgz/internal/gzheader"
)

// ErrorKind classifies a decode failure into one of seven kinds, so the
// CLI can assign a distinct exit code and a caller can errors.Is/As into
// the underlying typed error.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindBadSignature
	KindUnsupportedCompression
	KindUnsupportedBlockType
	KindCorruptLengths
	KindInvalidHuffmanCode
	KindBadBackReference
	KindUnexpectedEndOfInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadSignature:
		return "bad signature"
	case KindUnsupportedCompression:
		return "unsupported compression method"
	case KindUnsupportedBlockType:
		return "unsupported block type"
	case KindCorruptLengths:
		return "corrupt code lengths"
	case KindInvalidHuffmanCode:
		return "invalid Huffman code"
	case KindBadBackReference:
		return "bad back-reference"
	case KindUnexpectedEndOfInput:
		return "unexpected end of input"
	default:
		return "unknown"
	}
}

// Classify maps a decode error to its ErrorKind, for CLI diagnostics and
// exit-code assignment.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, gzheader.ErrBadSignature):
		return KindBadSignature
	case errors.Is(err, gzheader.ErrUnsupportedCompression):
		return KindUnsupportedCompression
	}

	var ubt *flate.UnsupportedBlockTypeError
	var cl *flate.CorruptLengthsError
	var ihc *flate.InvalidHuffmanCodeError
	var bbr *flate.BadBackReferenceError
	var ueoi *flate.UnexpectedEndOfInputError

	switch {
	case errors.As(err, &ubt):
		return KindUnsupportedBlockType
	case errors.As(err, &cl):
		return KindCorruptLengths
	case errors.As(err, &ihc):
		return KindInvalidHuffmanCode
	case errors.As(err, &bbr):
		return KindBadBackReference
	case errors.As(err, &ueoi):
		return KindUnexpectedEndOfInput
	default:
		return KindUnknown
	}
}

// ExitCode assigns one non-zero process exit code per ErrorKind, in
// ascending severity, the way go-ncrlite's CLI assigns one code per
// failure branch; 0 is reserved for success.
func ExitCode(kind ErrorKind) int {
	if kind == KindUnknown {
		return 1
	}
	return int(kind) + 1
}
