// Package ranger implements an io.ReaderAt over an HTTP resource using
// Range requests, so the gzip random-access reader can treat a URL the
// same way it treats a local file.
package ranger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// TODO: Consider an extension method that is like ReadAt but returns a reader of a given size.
// TODO: Consider probing with single byte size ranges for redirects (and a way to disable it).

// Reader is an io.ReaderAt backed by HTTP range requests against uri.
type Reader struct {
	ctx context.Context
	rt  http.RoundTripper
	uri string
}

// New returns a Reader that issues range requests against uri using rt.
func New(ctx context.Context, uri string, rt http.RoundTripper) *Reader {
	return &Reader{
		ctx: ctx,
		rt:  rt,
		uri: uri,
	}
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	req, err := http.NewRequestWithContext(r.ctx, "GET", r.uri, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, off+int64(len(p))-1))

	res, err := r.rt.RoundTrip(req)
	if err != nil {
		return 0, err
	}

	// TODO: Consider just keeping this open if the response doesn't support range.
	// It can still be faster to discard the compressed parts and only decompress the portion we need.
	defer res.Body.Close()

	if res.StatusCode == http.StatusPartialContent {
		return io.ReadFull(res.Body, p)
	}

	redir := res.Header.Get("Location")
	if redir == "" || res.StatusCode/100 != 3 {
		return 0, fmt.Errorf("%q does not support range requests, saw status: %d", r.uri, res.StatusCode)
	}

	res.Body.Close()

	u, err := url.Parse(redir)
	if err != nil {
		return 0, err
	}

	r.uri = req.URL.ResolveReference(u).String()
	return r.ReadAt(p, off)
}

// Size issues a single one-byte range request (bytes=0-0) to learn the resource's
// total length from the Content-Range response header, so a caller can
// satisfy dgz.Source without a separate HEAD round trip.
func (r *Reader) Size() (int64, error) {
	req, err := http.NewRequestWithContext(r.ctx, "GET", r.uri, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", "bytes=0-0")

	res, err := r.rt.RoundTrip(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("%q does not support range requests, saw status: %d", r.uri, res.StatusCode)
	}

	var first, last, total int64
	if _, err := fmt.Sscanf(res.Header.Get("Content-Range"), "bytes %d-%d/%d", &first, &last, &total); err != nil {
		return 0, fmt.Errorf("parsing Content-Range %q: %w", res.Header.Get("Content-Range"), err)
	}
	return total, nil
}
