package static

import (
	"fmt"
	"strconv"
	"strings"
)

// RangeWindow is the byte window served for a Range request.
//
// Start and End are offsets into the file and the transfer covers
// [Start, End). Total is the size of the whole entity.
type RangeWindow struct {
	Start int64
	End   int64
	Total int64
}

// Length returns the number of bytes in the window.
func (w RangeWindow) Length() int64 {
	return w.End - w.Start
}

// ContentRange formats the Content-Range header value for the window.
func (w RangeWindow) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", w.Start, w.End, w.Total)
}

// ParseRange parses a single "bytes=<start>-<end>" Range header against a
// file of the given size.
//
// Either bound may be omitted: a missing start means 0 and a missing end
// means the end of the file. The end value is used as an exclusive offset,
// so "bytes=0-9" selects nine bytes and reports "bytes 0-9/<size>". An end
// beyond the file is clamped to size.
//
// Multiple ranges, units other than "bytes", non-numeric or negative
// bounds, a start past the end or at the end of a non-empty file, and a
// spec with neither bound all return an error wrapping ErrMalformedRange.
func ParseRange(header string, size int64) (RangeWindow, error) {
	unit, spec, ok := strings.Cut(strings.TrimSpace(header), "=")
	if !ok || strings.TrimSpace(unit) != "bytes" {
		return RangeWindow{}, fmt.Errorf("%w: unit must be bytes: %q", ErrMalformedRange, header)
	}
	if strings.Contains(spec, ",") {
		return RangeWindow{}, fmt.Errorf("%w: multiple ranges not supported: %q", ErrMalformedRange, header)
	}

	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return RangeWindow{}, fmt.Errorf("%w: expected <start>-<end>: %q", ErrMalformedRange, header)
	}
	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])
	if startStr == "" && endStr == "" {
		return RangeWindow{}, fmt.Errorf("%w: empty range: %q", ErrMalformedRange, header)
	}

	w := RangeWindow{End: size, Total: size}

	if startStr != "" {
		start, err := parseOffset(startStr)
		if err != nil {
			return RangeWindow{}, fmt.Errorf("%w: start: %v", ErrMalformedRange, err)
		}
		w.Start = start
	}
	if endStr != "" {
		end, err := parseOffset(endStr)
		if err != nil {
			return RangeWindow{}, fmt.Errorf("%w: end: %v", ErrMalformedRange, err)
		}
		w.End = min(end, size)
	}

	if w.Start > w.End {
		return RangeWindow{}, fmt.Errorf("%w: start %d beyond end %d", ErrMalformedRange, w.Start, w.End)
	}
	if size > 0 && w.Start == size {
		return RangeWindow{}, fmt.Errorf("%w: start %d at end of file", ErrMalformedRange, w.Start)
	}
	return w, nil
}

func parseOffset(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative offset %d", n)
	}
	return n, nil
}
