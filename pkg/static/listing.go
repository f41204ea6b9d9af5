package static

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// ListEntry describes one directory entry of a Listing.
type ListEntry struct {
	Name     string
	IsDir    bool
	Type     string
	Encoding string
}

// Listing is the result of resolving a directory that has no index file.
type Listing struct {
	Dir     string
	Entries []ListEntry

	services *Services
}

// Lister renders directory listings. Register one under ListerService to
// replace the plain-text fallback.
type Lister interface {
	RenderListing(l *Listing) (contentType string, body []byte, err error)
}

func newListing(dir string, entries []fs.DirEntry, opts *Options) *Listing {
	l := &Listing{Dir: dir, services: opts.Services}
	for _, e := range entries {
		entry := ListEntry{Name: e.Name(), IsDir: e.IsDir()}
		if !entry.IsDir {
			entry.Type, entry.Encoding = TypeAndEncoding(e.Name(), opts.ContentTypes, opts.ContentEncodings, opts.DefaultType)
		}
		l.Entries = append(l.Entries, entry)
	}
	slices.SortFunc(l.Entries, func(a, b ListEntry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return l
}

func (l *Listing) Render(ch Channel) (RenderStatus, error) {
	typ, body, err := l.render(ch.Request())
	if err != nil {
		return Complete, fmt.Errorf("list %s: %w", l.Dir, err)
	}
	ch.SetHeader("Content-Type", typ)
	ch.SetHeader("Content-Length", strconv.Itoa(len(body)))
	if ch.Request().Method == http.MethodHead {
		return Complete, nil
	}
	return Complete, ch.Write(body)
}

func (l *Listing) render(r *http.Request) (string, []byte, error) {
	if l.services != nil {
		if lister, ok := l.services.Lister(); ok {
			return lister.RenderListing(l)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Directory listing for %s\n\n", r.URL.Path)
	for _, e := range l.Entries {
		buf.WriteString(e.Name)
		if e.IsDir {
			buf.WriteByte('/')
		}
		buf.WriteByte('\n')
	}
	return "text/plain; charset=utf-8", buf.Bytes(), nil
}
