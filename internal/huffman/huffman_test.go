package huffman

import (
	"bufio"
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/gzrun/dgz/internal/bitio"
)

func TestCanonicalExampleFromRFC(t *testing.T) {
	// RFC 1951 §3.2.2 worked example: symbols A-H with lengths
	// 3,3,3,3,3,2,4,4 -> canonical codes 010,011,100,101,110,00,1110,1111.
	lengths := []int{3, 3, 3, 3, 3, 2, 4, 4}
	codes, err := Canonical(lengths)
	if err != nil {
		t.Fatal(err)
	}

	want := map[int]Code{
		0: {0, 3, 0b010},
		1: {1, 3, 0b011},
		2: {2, 3, 0b100},
		3: {3, 3, 0b101},
		4: {4, 3, 0b110},
		5: {5, 2, 0b00},
		6: {6, 4, 0b1110},
		7: {7, 4, 0b1111},
	}
	if len(codes) != len(want) {
		t.Fatalf("expected length %d, got %d", len(want), len(codes))
	}
	for _, c := range codes {
		w, ok := want[c.Symbol]
		if !(ok) {
			t.Fatal("expected true")
		}
		if !reflect.DeepEqual(c, w) {
			t.Fatalf("got %#v, want %#v", c, w)
		}
	}
}

func TestCanonicalEmpty(t *testing.T) {
	codes, err := Canonical(make([]int, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 0 {
		t.Fatalf("expected empty, got %v", codes)
	}
}

func TestCanonicalDegenerateSingleSymbol(t *testing.T) {
	codes, err := Canonical([]int{1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(codes, []Code{{Symbol: 0, Length: 1, Value: 0}}) {
		t.Fatalf("got %#v, want %#v", codes, []Code{{Symbol: 0, Length: 1, Value: 0}})
	}
}

func TestBuildAndStepRoundTrip(t *testing.T) {
	lengths := []int{3, 3, 3, 3, 3, 2, 4, 4}
	tree, err := Build(lengths)
	if err != nil {
		t.Fatal(err)
	}

	codes, err := Canonical(lengths)
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range codes {
		tree.Reset()
		var got int
		for i := c.Length - 1; i >= 0; i-- {
			bit := uint32((c.Value >> uint(i)) & 1)
			state, sym := tree.Step(bit)
			if state == Leaf {
				got = sym
			}
		}
		if !reflect.DeepEqual(got, c.Symbol) {
			t.Fatalf("got %#v, want %#v", got, c.Symbol)
		}
	}
}

func TestDecodeFromBitStream(t *testing.T) {
	// Symbol 5 has code 00 (length 2), the shortest code in this table.
	tree, err := Build([]int{3, 3, 3, 3, 3, 2, 4, 4})
	if err != nil {
		t.Fatal(err)
	}

	r := bitio.NewReader(bufio.NewReader(bytes.NewReader([]byte{0b0000_0000})))
	sym, err := Decode(tree, r)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sym, 5) {
		t.Fatalf("got %#v, want %#v", sym, 5)
	}
}

func TestInsertCollision(t *testing.T) {
	tree := NewTree()
	if err := tree.Insert(0b0, 1, 0); err != nil {
		t.Fatal(err)
	}
	// A second code starting with the same single bit is a genuine
	// prefix collision: the first code is already a leaf at that node.
	err := tree.Insert(0b01, 2, 1)
	if !errors.Is(err, ErrCollision) {
		t.Fatalf("expected error wrapping %v, got %v", ErrCollision, err)
	}
}

func TestStepInvalid(t *testing.T) {
	incomplete := NewTree()
	if err := incomplete.Insert(0b0, 1, 0); err != nil {
		t.Fatal(err)
	}
	state, _ := incomplete.Step(1)
	if !reflect.DeepEqual(state, Invalid) {
		t.Fatalf("got %#v, want %#v", state, Invalid)
	}
}
