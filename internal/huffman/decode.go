package huffman

import "github.com/gzrun/dgz/internal/bitio"

// Decode walks t one bit at a time, pulling bits from br, until a leaf
// is reached, returning its symbol. The cursor is reset to the root
// first, so callers never need to call Reset themselves between
// symbols.
func Decode(t *Tree, br *bitio.Reader) (int, error) {
	t.Reset()
	for {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		switch state, sym := t.Step(bit); state {
		case Leaf:
			return sym, nil
		case Invalid:
			return 0, ErrInvalidCode
		}
	}
}
