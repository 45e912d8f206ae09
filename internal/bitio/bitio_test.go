package bitio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"
)

func newReader(data []byte) *Reader {
	return NewReader(bufio.NewReader(bytes.NewReader(data)))
}

func TestReadBitsLSBFirst(t *testing.T) {
	// byte 0b1011_0010 read as 2, 3 and 3 bits, LSB first, should yield
	// the bit sequence 0,1,0,0,1,1,0,1 (bit 0 of the byte first).
	r := newReader([]byte{0b1011_0010})

	v, err := r.ReadBits(2, false)
	if err != nil {
		t.Fatal(err)
	}
	// bits 0,1 -> 0,1 -> value 0b10
	if v != 0b10 {
		t.Fatalf("got %#v, want %#v", v, uint32(0b10))
	}

	v, err = r.ReadBits(3, false)
	if err != nil {
		t.Fatal(err)
	}
	// bits 2,3,4 -> 0,0,1 -> 0b100
	if v != 0b100 {
		t.Fatalf("got %#v, want %#v", v, uint32(0b100))
	}

	v, err = r.ReadBits(3, false)
	if err != nil {
		t.Fatal(err)
	}
	// bits 5,6,7 -> 1,0,1 -> 0b101
	if v != 0b101 {
		t.Fatalf("got %#v, want %#v", v, uint32(0b101))
	}
}

func TestReadBitsKeep(t *testing.T) {
	r := newReader([]byte{0xFF, 0x00})

	v1, err := r.ReadBits(4, true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v1, uint32(0xF)) {
		t.Fatalf("got %#v, want %#v", v1, uint32(0xF))
	}

	// Same 4 bits should be readable again.
	v2, err := r.ReadBits(4, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v2, v1) {
		t.Fatalf("got %#v, want %#v", v2, v1)
	}

	v3, err := r.ReadBits(4, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v3, uint32(0xF)) {
		t.Fatalf("got %#v, want %#v", v3, uint32(0xF))
	}
}

func TestReadBitsSpansBytes(t *testing.T) {
	r := newReader([]byte{0b1111_0000, 0b0000_1111})
	v, err := r.ReadBits(12, false)
	if err != nil {
		t.Fatal(err)
	}
	// low 8 bits come from byte 0, next 4 from the low bits of byte 1.
	if !reflect.DeepEqual(v, uint32(0b1111_1111_0000)) {
		t.Fatalf("got %#v, want %#v", v, uint32(0b1111_1111_0000))
	}
}

func TestReadBitsUnexpectedEOF(t *testing.T) {
	r := newReader([]byte{0x01})
	_, err := r.ReadBits(8, false)
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.ReadBits(1, false)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected error wrapping %v, got %v", io.ErrUnexpectedEOF, err)
	}
}
