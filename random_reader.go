package dgz

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/gzrun/dgz/internal/flate"
	"github.com/gzrun/dgz/internal/gzheader"
)

// checkpointSpan is the default number of output bytes between saved
// checkpoints; smaller spans cost more memory per Index, larger spans
// cost more replay work per ReadAt.
const checkpointSpan = 1 << 20

// Index is the persisted form of a RandomReader's checkpoint slice, so a
// caller can cache it across process restarts instead of re-scanning the
// member from the front.
type Index struct {
	HeaderLen   int64
	Checkpoints []*flate.Checkpoint
}

// RandomReader is an io.ReaderAt over the decompressed bytes of a single
// gzip member, built on top of the core block decoder: a pool of live
// decoders keyed by their current output offset, plus a background
// goroutine that appends newly produced Checkpoints so concurrent
// ReadAt calls never race on the slice directly.
type RandomReader struct {
	ra        Source
	size      int64
	headerLen int64
	span      int64

	mu          sync.Mutex
	checkpoints []*flate.Checkpoint
	readers     map[*flate.Decompressor]bool

	name    string
	comment string
}

// countingReader tracks how many bytes have been consumed from the
// underlying bufio.Reader, so the header's length can be recovered after
// gzheader.Read returns — a Checkpoint's In field is measured from the
// first byte of the DEFLATE stream, not from the start of the member.
type countingReader struct {
	br *bufio.Reader
	n  int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.br.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.br.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

// NewRandomReader parses ra's member header, sets up a first-pass decoder
// over its DEFLATE stream and returns a RandomReader immediately. The
// first-pass decoder advances only as ReadAt calls consume from it; the
// checkpoints it emits along the way are collected by a background
// goroutine for later ReadAt calls.
func NewRandomReader(ra Source) (*RandomReader, error) {
	return NewRandomReaderWithSpan(ra, checkpointSpan)
}

// NewRandomReaderWithSpan is NewRandomReader with an explicit checkpoint
// span, for callers that want to trade index size against replay cost
// (or, in tests, exercise checkpointing against a small fixture).
func NewRandomReaderWithSpan(ra Source, span int64) (*RandomReader, error) {
	sr := io.NewSectionReader(ra, 0, ra.Size())

	// Buffer reads so ranger-backed sources don't issue a tiny HTTP
	// range request per byte consumed.
	br := bufio.NewReaderSize(sr, 1<<20)
	cr := &countingReader{br: br}

	h, hbr, err := gzheader.Read(cr)
	if err != nil {
		return nil, err
	}

	updates := make(chan *flate.Checkpoint, 16)
	d := flate.NewDecompressor(hbr, span, updates)

	r := &RandomReader{
		ra:          ra,
		size:        ra.Size(),
		headerLen:   cr.n,
		span:        span,
		checkpoints: []*flate.Checkpoint{},
		readers:     map[*flate.Decompressor]bool{d: true},
		name:        h.Name,
		comment:     h.Comment,
	}

	go func() {
		for cp := range updates {
			r.mu.Lock()
			r.checkpoints = append(r.checkpoints, cp)
			r.mu.Unlock()
		}
	}()

	return r, nil
}

// Name is the file name recorded in the member's header, if any.
func (r *RandomReader) Name() string { return r.name }

// Comment is the comment recorded in the member's header, if any.
func (r *RandomReader) Comment() string { return r.comment }

// Encode writes the current checkpoint index as JSON.
func (r *RandomReader) Encode(w io.Writer) error {
	r.mu.Lock()
	idx := Index{HeaderLen: r.headerLen, Checkpoints: r.checkpoints}
	r.mu.Unlock()
	return json.NewEncoder(w).Encode(&idx)
}

// DecodeIndex reads a checkpoint index persisted by Encode and builds a
// RandomReader from it, with no decoding done yet — ReadAt replays from
// the nearest checkpoint on demand.
func DecodeIndex(ra Source, index io.Reader) (*RandomReader, error) {
	var idx Index
	if err := json.NewDecoder(index).Decode(&idx); err != nil {
		return nil, err
	}
	return &RandomReader{
		ra:          ra,
		size:        ra.Size(),
		headerLen:   idx.HeaderLen,
		span:        checkpointSpan,
		checkpoints: idx.Checkpoints,
		readers:     map[*flate.Decompressor]bool{},
	}, nil
}

// acquireReader returns a *flate.Decompressor positioned to produce the
// byte at output offset off next, reusing an idle one already there,
// replaying from the nearest checkpoint at or before off, or — absent
// any such checkpoint — discarding forward from an idle reader positioned
// at or before off (whichever the pool yields first), or else from a
// fresh decoder started at the beginning of the stream.
func (r *RandomReader) acquireReader(off int64) (*flate.Decompressor, error) {
	r.mu.Lock()
	for d, idle := range r.readers {
		if idle && d.Offset() == off {
			r.readers[d] = false
			r.mu.Unlock()
			return d, nil
		}
	}

	var highest *flate.Checkpoint
	for _, cp := range r.checkpoints {
		if cp.Out > off {
			break
		}
		highest = cp
	}
	r.mu.Unlock()

	if highest == nil {
		r.mu.Lock()
		for d, idle := range r.readers {
			if idle && d.Offset() <= off {
				r.readers[d] = false
				r.mu.Unlock()
				if _, err := io.CopyN(io.Discard, d, off-d.Offset()); err != nil {
					return nil, err
				}
				return d, nil
			}
		}
		r.mu.Unlock()

		// No checkpoint at or before off and no idle reader to reuse:
		// start a fresh decoder from the first byte of the stream, the
		// same way NewRandomReader bootstraps its initial decoder.
		sr := io.NewSectionReader(r.ra, r.headerLen, r.size-r.headerLen)
		bsr := bufio.NewReaderSize(sr, 1<<20)
		d := flate.NewDecompressor(bsr, r.span, nil)
		if off > 0 {
			if _, err := io.CopyN(io.Discard, d, off); err != nil {
				return nil, err
			}
		}
		r.mu.Lock()
		r.readers[d] = false
		r.mu.Unlock()
		return d, nil
	}

	in := r.headerLen + highest.In
	sr := io.NewSectionReader(r.ra, in, r.size-in)
	bsr := bufio.NewReaderSize(sr, 1<<20)
	d := flate.Continue(bsr, highest, r.span, nil)

	if discard := off - highest.Out; discard > 0 {
		if _, err := io.CopyN(io.Discard, d, discard); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.readers[d] = false
	r.mu.Unlock()

	return d, nil
}

// ReadAt decodes and returns the span of the decompressed member that
// covers [off, off+len(p)), replaying forward from the nearest checkpoint
// rather than from the start of the member.
func (r *RandomReader) ReadAt(p []byte, off int64) (int, error) {
	d, err := r.acquireReader(off)
	if err != nil {
		return 0, err
	}

	defer func() {
		r.mu.Lock()
		r.readers[d] = true
		r.mu.Unlock()
	}()

	return io.ReadFull(d, p)
}
