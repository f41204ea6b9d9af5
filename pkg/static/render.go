package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"github.com/marmos91/dittoserve/internal/logger"
	"github.com/marmos91/dittoserve/internal/telemetry"
)

// sniffLen is the number of leading bytes inspected for content sniffing.
const sniffLen = 3072

// Render answers the request on ch with the node's file.
//
// Missing files render the 404 page and directories redirect to the
// slash-terminated URL. A file that cannot be opened for lack of
// permission renders the 403 page; other open errors are returned. When
// the client's cached copy is current, or the request is HEAD, only
// headers are sent. Otherwise a Transfer is registered for the requested
// window and Pending is returned.
func (n *Node) Render(ch Channel) (RenderStatus, error) {
	r := ch.Request()
	ctx := r.Context()

	n.Restat()
	if !n.Exists() {
		return NotFoundPage(notFoundDetail).Render(ch)
	}
	if n.IsDir() {
		return Redirect(addSlash(r)).Render(ch)
	}

	typ, enc, known := n.negotiate()
	ch.SetHeader("Accept-Ranges", "bytes")
	ch.SetHeader("Content-Type", typ)
	ch.SetHeader("Content-Encoding", enc)

	f, err := os.Open(n.path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			logger.DebugCtx(ctx, "Open denied", logger.KeyFile, n.path)
			return ForbiddenPage().Render(ch)
		}
		return Complete, fmt.Errorf("open %s: %w", n.path, err)
	}

	if n.opts.SniffContentType && !known && enc == "" {
		sniffed, err := n.sniff(f)
		if err != nil {
			_ = f.Close()
			return Complete, err
		}
		typ = sniffed
		ch.SetHeader("Content-Type", typ)
	}

	size := n.Size()
	telemetry.SetAttributes(ctx,
		telemetry.FilePath(n.path),
		telemetry.FileSize(size),
		telemetry.ContentType(typ),
		telemetry.Encoding(enc))

	if ch.SetLastModified(n.ModTime()) {
		_ = f.Close()
		return Complete, nil
	}

	window := RangeWindow{End: size, Total: size}
	if header := r.Header.Get("Range"); header != "" {
		telemetry.SetAttributes(ctx, telemetry.HTTPRange(header))
		w, err := ParseRange(header, size)
		if err != nil {
			logger.WarnCtx(ctx, "Ignoring malformed range",
				logger.KeyFile, n.path,
				logger.KeyRange, header,
				logger.KeyError, err)
		} else {
			if _, err := f.Seek(w.Start, io.SeekStart); err != nil {
				_ = f.Close()
				return Complete, fmt.Errorf("seek %s to %d: %w", n.path, w.Start, err)
			}
			window = w
			ch.SetStatus(http.StatusPartialContent)
			ch.SetHeader("Content-Range", w.ContentRange())
		}
	}
	ch.SetHeader("Content-Length", strconv.FormatInt(window.Length(), 10))

	if r.Method == http.MethodHead {
		_ = f.Close()
		return Complete, nil
	}

	NewTransfer(f, window.Length(), ch, n.opts)
	return Pending, nil
}

// sniff detects the content type of f and rewinds it. The result is
// cached on the node.
func (n *Node) sniff(f *os.File) (string, error) {
	mt, err := mimetype.DetectReader(io.LimitReader(f, sniffLen))
	if err != nil {
		return "", fmt.Errorf("sniff %s: %w", n.path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind %s: %w", n.path, err)
	}
	n.typ = mt.String()
	n.known = true
	return n.typ, nil
}
