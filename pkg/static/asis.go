package static

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/textproto"
	"os"
	"strconv"
	"strings"
)

// AsIsProcessor serves files that carry their own response headers. It is
// registered for ".asis" by default.
//
// The file starts with MIME-style header lines, an optional "Status"
// header giving the response code, and a blank line; the rest is the body.
// One AsIs is built per path and cached in services; the file is parsed
// afresh on every render.
func AsIsProcessor(path string, services *Services) (Resource, error) {
	if services == nil {
		return &AsIs{path: path}, nil
	}
	if res, ok := services.CachedPath(path); ok {
		return res, nil
	}
	a := &AsIs{path: path}
	a.opts, _ = services.Options()
	services.CachePath(path, a)
	return a, nil
}

// AsIs is the resource produced by AsIsProcessor.
type AsIs struct {
	path string

	// opts configures the body transfer; nil uses transfer defaults.
	opts *Options
}

func (a *AsIs) Render(ch Channel) (RenderStatus, error) {
	f, err := os.Open(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NotFoundPage(notFoundDetail).Render(ch)
		}
		if errors.Is(err, fs.ErrPermission) {
			return ForbiddenPage().Render(ch)
		}
		return Complete, fmt.Errorf("open %s: %w", a.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Complete, fmt.Errorf("stat %s: %w", a.path, err)
	}

	counted := &countingReader{r: f}
	br := bufio.NewReader(counted)
	header, err := textproto.NewReader(br).ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return Complete, fmt.Errorf("parse %s: %w", a.path, err)
	}

	if status := header.Get("Status"); status != "" {
		code, _, _ := strings.Cut(status, " ")
		n, err := strconv.Atoi(code)
		if err != nil || n < 100 || n > 999 {
			_ = f.Close()
			return Complete, fmt.Errorf("parse %s: invalid status %q", a.path, status)
		}
		ch.SetStatus(n)
		header.Del("Status")
	}
	for key, values := range header {
		ch.SetHeader(key, "")
		for _, v := range values {
			ch.AddHeader(key, v)
		}
	}

	consumed := counted.n - int64(br.Buffered())
	total := max(info.Size()-consumed, 0)
	ch.SetHeader("Content-Length", strconv.FormatInt(total, 10))

	if ch.Request().Method == http.MethodHead {
		_ = f.Close()
		return Complete, nil
	}

	body := struct {
		io.Reader
		io.Closer
	}{br, f}
	NewTransfer(body, total, ch, a.opts)
	return Pending, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
