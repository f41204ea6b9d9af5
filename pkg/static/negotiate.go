package static

import (
	"path/filepath"
	"strings"
)

// TypeAndEncoding derives the MIME type and content encoding for filename.
//
// When the extension is an encoding (".gz", ".bz2", ...) the encoding is
// recorded and the type is taken from the extension in front of it, so
// "archive.tar.gz" is served as a tar with gzip encoding. Matching is
// case-insensitive. enc is empty when no encoding applies; typ falls back
// to defaultType.
func TypeAndEncoding(filename string, types, encodings map[string]string, defaultType string) (typ, enc string) {
	typ, enc, ok := LookupType(filename, types, encodings)
	if !ok {
		typ = defaultType
	}
	return typ, enc
}

// LookupType is TypeAndEncoding without the fallback: ok reports whether
// the type table had an entry, and typ is empty when it did not.
func LookupType(filename string, types, encodings map[string]string) (typ, enc string, ok bool) {
	base, ext := splitExt(filename)
	ext = strings.ToLower(ext)

	if e, found := encodings[ext]; found {
		enc = e
		_, ext = splitExt(base)
		ext = strings.ToLower(ext)
	}

	typ, ok = types[ext]
	return typ, enc, ok
}

// splitExt splits the final extension off name. Leading dots of the base
// name do not start an extension, so ".profile" has none.
func splitExt(name string) (root, ext string) {
	dir, file := filepath.Split(name)
	trimmed := strings.TrimLeft(file, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return name, ""
	}
	i += len(file) - len(trimmed)
	return dir + file[:i], file[i:]
}
