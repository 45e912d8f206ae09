package flate

import (
	"github.com/gzrun/dgz/internal/bitio"
	"github.com/gzrun/dgz/internal/huffman"
)

const (
	minHLIT  = 257
	maxHLIT  = 286
	minHDIST = 1
	maxHDIST = 32
	numCodegenCodes = 19
)

// codeOrder is the fixed permutation mapping the position of each 3-bit
// length read from the stream to its slot in the 19-symbol meta
// alphabet.
var codeOrder = [numCodegenCodes]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// readCodeLengthAlphabet reads the HLIT/HDIST/HCLEN header fields plus
// the HCLEN+4 triplets of 3-bit lengths for the meta alphabet.
func readCodeLengthAlphabet(br *bitio.Reader, blockIndex int) (nlit, ndist int, metaLengths [numCodegenCodes]int, err error) {
	hlit, err := br.ReadBits(5, false)
	if err != nil {
		return 0, 0, metaLengths, err
	}
	nlit = int(hlit) + minHLIT
	if nlit > maxHLIT {
		return 0, 0, metaLengths, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "HLIT exceeds the literal/length alphabet"}
	}

	hdist, err := br.ReadBits(5, false)
	if err != nil {
		return 0, 0, metaLengths, err
	}
	ndist = int(hdist) + minHDIST
	if ndist > maxHDIST {
		return 0, 0, metaLengths, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "HDIST exceeds the distance alphabet"}
	}

	hclen, err := br.ReadBits(4, false)
	if err != nil {
		return 0, 0, metaLengths, err
	}
	nclen := int(hclen) + 4

	for i := 0; i < nclen; i++ {
		v, err := br.ReadBits(3, false)
		if err != nil {
			return 0, 0, metaLengths, err
		}
		metaLengths[codeOrder[i]] = int(v)
	}
	// Positions not covered by HCLEN triplets are implicitly zero; the
	// array is already zeroed on entry.

	return nlit, ndist, metaLengths, nil
}

// readLengths uses the meta tree built from metaLengths to expand
// nlit+ndist code lengths via the RLE codes 16/17/18, then splits the
// result into the literal/length and distance length vectors.
func readLengths(br *bitio.Reader, blockIndex, nlit, ndist int, meta *huffman.Tree) (litlen, dist []int, err error) {
	total := nlit + ndist
	lengths := make([]int, 0, total)

	for len(lengths) < total {
		sym, err := huffman.Decode(meta, br)
		if err != nil {
			return nil, nil, wrapReadErr(blockIndex, err, &InvalidHuffmanCodeError{BlockIndex: blockIndex})
		}

		switch {
		case sym <= 15:
			lengths = append(lengths, sym)

		case sym == 16:
			if len(lengths) == 0 {
				return nil, nil, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "repeat code 16 with no prior length"}
			}
			x, err := br.ReadBits(2, false)
			if err != nil {
				return nil, nil, &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
			}
			prev := lengths[len(lengths)-1]
			rep := 3 + int(x)
			if len(lengths)+rep > total {
				return nil, nil, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "repeat code 16 overruns length vector"}
			}
			for i := 0; i < rep; i++ {
				lengths = append(lengths, prev)
			}

		case sym == 17:
			x, err := br.ReadBits(3, false)
			if err != nil {
				return nil, nil, &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
			}
			rep := 3 + int(x)
			if len(lengths)+rep > total {
				return nil, nil, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "repeat code 17 overruns length vector"}
			}
			for i := 0; i < rep; i++ {
				lengths = append(lengths, 0)
			}

		case sym == 18:
			x, err := br.ReadBits(7, false)
			if err != nil {
				return nil, nil, &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
			}
			rep := 11 + int(x)
			if len(lengths)+rep > total {
				return nil, nil, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "repeat code 18 overruns length vector"}
			}
			for i := 0; i < rep; i++ {
				lengths = append(lengths, 0)
			}

		default:
			return nil, nil, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "unexpected code-length symbol"}
		}
	}

	if len(lengths) != total {
		return nil, nil, &CorruptLengthsError{BlockIndex: blockIndex, Reason: "length vector has wrong size"}
	}

	return lengths[:nlit], lengths[nlit:], nil
}

func wrapReadErr(blockIndex int, err error, huffmanErr error) error {
	if err == huffman.ErrInvalidCode {
		return huffmanErr
	}
	return &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
}
