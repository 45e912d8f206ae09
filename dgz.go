// Package dgz decompresses a single-member gzip container whose DEFLATE
// payload uses only dynamic Huffman blocks, and provides a checkpointed
// random-access reader for large members.
package dgz

import (
	"io"
	"time"

	"github.com/gzrun/dgz/internal/flate"
	"github.com/gzrun/dgz/internal/gzheader"
)

// Result is one fully decoded gzip member.
type Result struct {
	Name    string
	Comment string
	ModTime time.Time
	Data    []byte
}

// Decompress reads a single gzip member from r in full: its header, then
// its DEFLATE payload block by block, returning the decoded bytes and
// the recovered file name.
func Decompress(r io.Reader) (*Result, error) {
	h, br, err := gzheader.Read(r)
	if err != nil {
		return nil, err
	}

	data, err := flate.Decompress(br)
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:    h.Name,
		Comment: h.Comment,
		ModTime: h.ModTime,
		Data:    data,
	}, nil
}

// DecompressFile reads and decompresses an entire member from src,
// satisfying the Source-based external interface for
// callers that already have a random-access reader rather than a plain
// io.Reader.
func DecompressFile(src Source) (*Result, error) {
	return Decompress(io.NewSectionReader(src, 0, src.Size()))
}
