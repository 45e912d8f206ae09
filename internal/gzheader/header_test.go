package gzheader

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestReadBadSignature(t *testing.T) {
	// first two bytes wrong: 1E 8B instead of 1F 8B.
	data := []byte{0x1E, 0x8B, 0x08, 0x00, 0, 0, 0, 0, 0x00, 0xFF}
	_, _, err := Read(bytes.NewReader(data))
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected error wrapping %v, got %v", ErrBadSignature, err)
	}
}

func TestReadUnsupportedCompression(t *testing.T) {
	// well-formed header with CM = 00, not the supported 08 (DEFLATE).
	data := []byte{0x1F, 0x8B, 0x00, 0x00, 0, 0, 0, 0, 0x00, 0xFF}
	_, _, err := Read(bytes.NewReader(data))
	if !errors.Is(err, ErrUnsupportedCompression) {
		t.Fatalf("expected error wrapping %v, got %v", ErrUnsupportedCompression, err)
	}
}

func TestReadNameOnly(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x1F, 0x8B, 0x08, 0x08 /* FNAME */, 0, 0, 0, 0, 0x00, 0x03})
	buf.WriteString("hello.txt\x00")
	buf.WriteString("REST")

	h, br, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(h.Name, "hello.txt") {
		t.Fatalf("got %#v, want %#v", h.Name, "hello.txt")
	}

	rest := make([]byte, 4)
	_, err = io.ReadFull(asReader{br}, rest)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(string(rest), "REST") {
		t.Fatalf("got %#v, want %#v", string(rest), "REST")
	}
}

func TestReadNameLatin1HighByte(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x1F, 0x8B, 0x08, 0x08 /* FNAME */, 0, 0, 0, 0, 0x00, 0x03})
	buf.Write([]byte{'c', 'a', 'f', 0xE9, 0x00}) // "caf\xE9" = "café" in Latin-1

	h, _, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "café" {
		t.Fatalf("got %#v, want %#v", h.Name, "café")
	}
}

func TestReadAllOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	flg := byte(flagExtra | flagName | flagComment | flagHCRC)
	buf.Write([]byte{0x1F, 0x8B, 0x08, flg, 0, 0, 0, 0, 0x00, 0x03})
	buf.Write([]byte{3, 0}) // XLEN = 3, little-endian
	buf.Write([]byte{'a', 'b', 'c'})
	buf.WriteString("name.txt\x00")
	buf.WriteString("a comment\x00")
	buf.Write([]byte{0x00, 0x00}) // FHCRC

	h, _, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(h.Extra, []byte("abc")) {
		t.Fatalf("got %#v, want %#v", h.Extra, []byte("abc"))
	}
	if !reflect.DeepEqual(h.Name, "name.txt") {
		t.Fatalf("got %#v, want %#v", h.Name, "name.txt")
	}
	if !reflect.DeepEqual(h.Comment, "a comment") {
		t.Fatalf("got %#v, want %#v", h.Comment, "a comment")
	}
}

func TestReadTrailer(t *testing.T) {
	tr := ReadTrailer([]byte{0x01, 0x00, 0x00, 0x00, 0x2A, 0x00, 0x00, 0x00})
	if !reflect.DeepEqual(tr.CRC32, uint32(1)) {
		t.Fatalf("got %#v, want %#v", tr.CRC32, uint32(1))
	}
	if !reflect.DeepEqual(tr.ISIZE, uint32(42)) {
		t.Fatalf("got %#v, want %#v", tr.ISIZE, uint32(42))
	}
}

type asReader struct {
	io.ByteReader
}

func (a asReader) Read(p []byte) (int, error) {
	for i := range p {
		b, err := a.ReadByte()
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}
