package flate

import (
	"github.com/gzrun/dgz/internal/bitio"
	"github.com/gzrun/dgz/internal/huffman"
)

const endOfBlock = 256

// lengthBase/lengthExtra implement the length resolution table of spec
// §4.G, indexed by symbol-257 (symbols 257..285).
var lengthBase = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
var lengthExtra = [29]int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

// distBase/distExtra implement the distance resolution table of spec
// §4.G, indexed by the distance symbol 0..29.
var distBase = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
var distExtra = [30]int{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}

func resolveLength(blockIndex, sym int, br *bitio.Reader) (int, error) {
	i := sym - 257
	if i < 0 || i >= len(lengthBase) {
		return 0, &InvalidHuffmanCodeError{BlockIndex: blockIndex}
	}
	length := lengthBase[i]
	if n := lengthExtra[i]; n > 0 {
		x, err := br.ReadBits(n, false)
		if err != nil {
			return 0, &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
		}
		length += int(x)
	}
	return length, nil
}

func resolveDistance(blockIndex, sym int, br *bitio.Reader) (int, error) {
	if sym < 0 || sym >= len(distBase) {
		return 0, &InvalidHuffmanCodeError{BlockIndex: blockIndex}
	}
	dist := distBase[sym]
	if n := distExtra[sym]; n > 0 {
		x, err := br.ReadBits(n, false)
		if err != nil {
			return 0, &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
		}
		dist += int(x)
	}
	return dist, nil
}

// decodeBlock consumes one dynamic-Huffman block's literal/length and
// distance symbol stream, writing decoded bytes and back-reference
// copies into w, until the end-of-block symbol (256) is reached.
func decodeBlock(br *bitio.Reader, blockIndex int, litlenTree, distTree *huffman.Tree, w window) error {
	for {
		sym, err := huffman.Decode(litlenTree, br)
		if err != nil {
			return wrapSymbolErr(blockIndex, err)
		}

		switch {
		case sym < 256:
			w.WriteByte(byte(sym))

		case sym == endOfBlock:
			return nil

		default:
			length, err := resolveLength(blockIndex, sym, br)
			if err != nil {
				return err
			}

			if distTree.Empty() {
				// A length symbol always demands a paired distance code;
				// a block whose HDIST tree has no codes at all can never
				// legally produce one.
				return &InvalidHuffmanCodeError{BlockIndex: blockIndex}
			}

			distSym, err := huffman.Decode(distTree, br)
			if err != nil {
				return wrapSymbolErr(blockIndex, err)
			}

			dist, err := resolveDistance(blockIndex, distSym, br)
			if err != nil {
				return err
			}

			if err := w.WriteCopy(dist, length); err != nil {
				return err
			}
		}
	}
}

func wrapSymbolErr(blockIndex int, err error) error {
	if err == huffman.ErrInvalidCode {
		return &InvalidHuffmanCodeError{BlockIndex: blockIndex}
	}
	return &UnexpectedEndOfInputError{BlockIndex: blockIndex, Err: err}
}
