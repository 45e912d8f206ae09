package dgz

import (
	"io"
	"io/fs"
	"os"
	"time"
)

// Source is the random-access byte reader the core and the checkpointed
// reader require.
type Source interface {
	io.ReaderAt
	Size() int64
}

// Sink is the byte sink a driver writes a decoded member to.
type Sink interface {
	WriteFile(name string, mode fs.FileMode, modTime time.Time, data []byte) error
}

// FileSource adapts an *os.File to Source.
type FileSource struct {
	f    *os.File
	size int64
}

// NewFileSource stats f once so repeated Size() calls don't re-stat.
func NewFileSource(f *os.File) (*FileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return &FileSource{f: f, size: info.Size()}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *FileSource) Size() int64                              { return s.size }

var _ Source = (*FileSource)(nil)

// DirSink writes decoded members as files under a directory.
type DirSink struct {
	Dir string
}

func (s DirSink) WriteFile(name string, mode fs.FileMode, modTime time.Time, data []byte) error {
	path := name
	if s.Dir != "" {
		path = s.Dir + string(os.PathSeparator) + name
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return err
	}
	if !modTime.IsZero() {
		return os.Chtimes(path, modTime, modTime)
	}
	return nil
}

// StdoutSink writes the decoded content to w, ignoring the name/mode/
// mtime — the CLI uses this for -c/--stdout, grounded on go-ncrlite's
// "-stdout" flag.
type StdoutSink struct {
	W io.Writer
}

func (s StdoutSink) WriteFile(_ string, _ fs.FileMode, _ time.Time, data []byte) error {
	_, err := s.W.Write(data)
	return err
}
