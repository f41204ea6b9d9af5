package static

import "strings"

// DefaultType is used for files whose extension is not in the type table.
const DefaultType = "text/html"

// DefaultIndexNames are probed, in order, when a directory is requested
// with a trailing slash.
var DefaultIndexNames = []string{"index", "index.html", "index.htm", "index.trp", "index.rpy"}

// builtinContentTypes is the base extension table. Keys are lowercase and
// include the leading dot.
var builtinContentTypes = map[string]string{
	".a":     "application/octet-stream",
	".ai":    "application/postscript",
	".aif":   "audio/x-aiff",
	".aifc":  "audio/x-aiff",
	".aiff":  "audio/x-aiff",
	".au":    "audio/basic",
	".avi":   "video/x-msvideo",
	".bat":   "text/plain",
	".bcpio": "application/x-bcpio",
	".bin":   "application/octet-stream",
	".bmp":   "image/x-ms-bmp",
	".c":     "text/plain",
	".css":   "text/css",
	".csv":   "text/csv",
	".doc":   "application/msword",
	".dvi":   "application/x-dvi",
	".eml":   "message/rfc822",
	".eps":   "application/postscript",
	".etx":   "text/x-setext",
	".gif":   "image/gif",
	".gtar":  "application/x-gtar",
	".h":     "text/plain",
	".htm":   "text/html",
	".html":  "text/html",
	".ico":   "image/vnd.microsoft.icon",
	".ief":   "image/ief",
	".jpe":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".js":    "application/javascript",
	".json":  "application/json",
	".ksh":   "text/plain",
	".latex": "application/x-latex",
	".m1v":   "video/mpeg",
	".man":   "application/x-troff-man",
	".me":    "application/x-troff-me",
	".mht":   "message/rfc822",
	".mhtml": "message/rfc822",
	".mid":   "audio/midi",
	".midi":  "audio/midi",
	".mov":   "video/quicktime",
	".movie": "video/x-sgi-movie",
	".mp2":   "audio/mpeg",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".mpa":   "video/mpeg",
	".mpe":   "video/mpeg",
	".mpeg":  "video/mpeg",
	".mpg":   "video/mpeg",
	".ms":    "application/x-troff-ms",
	".nc":    "application/x-netcdf",
	".nws":   "message/rfc822",
	".o":     "application/octet-stream",
	".obj":   "application/octet-stream",
	".oda":   "application/oda",
	".pbm":   "image/x-portable-bitmap",
	".pdf":   "application/pdf",
	".pgm":   "image/x-portable-graymap",
	".png":   "image/png",
	".pnm":   "image/x-portable-anymap",
	".ppm":   "image/x-portable-pixmap",
	".ppt":   "application/vnd.ms-powerpoint",
	".ps":    "application/postscript",
	".py":    "text/x-python",
	".qt":    "video/quicktime",
	".ras":   "image/x-cmu-raster",
	".rgb":   "image/x-rgb",
	".roff":  "application/x-troff",
	".rtf":   "application/rtf",
	".rtx":   "text/richtext",
	".sgm":   "text/x-sgml",
	".sgml":  "text/x-sgml",
	".sh":    "application/x-sh",
	".svg":   "image/svg+xml",
	".t":     "application/x-troff",
	".tar":   "application/x-tar",
	".tcl":   "application/x-tcl",
	".tex":   "application/x-tex",
	".texi":  "application/x-texinfo",
	".tif":   "image/tiff",
	".tiff":  "image/tiff",
	".tsv":   "text/tab-separated-values",
	".txt":   "text/plain",
	".wasm":  "application/wasm",
	".wav":   "audio/x-wav",
	".webm":  "video/webm",
	".webp":  "image/webp",
	".xbm":   "image/x-xbitmap",
	".xls":   "application/vnd.ms-excel",
	".xml":   "text/xml",
	".xpm":   "image/x-xpixmap",
	".xsl":   "application/xml",
	".xwd":   "image/x-xwindowdump",
	".zip":   "application/zip",

	// Overrides for entries the base table gets wrong or lacks.
	".conf": "text/plain",
	".diff": "text/plain",
	".exe":  "application/x-executable",
	".flac": "audio/x-flac",
	".java": "text/plain",
	".ogg":  "application/ogg",
	".oz":   "text/x-oz",
	".swf":  "application/x-shockwave-flash",
	".tgz":  "application/x-gtar",
	".wml":  "text/vnd.wap.wml",
	".xul":  "application/vnd.mozilla.xul+xml",
}

var builtinContentEncodings = map[string]string{
	".gz":  "gzip",
	".bz2": "bzip2",
}

// DefaultContentTypes returns a fresh copy of the builtin extension to MIME
// type table.
func DefaultContentTypes() map[string]string {
	return cloneTable(builtinContentTypes)
}

// DefaultContentEncodings returns a fresh copy of the builtin extension to
// content-encoding table.
func DefaultContentEncodings() map[string]string {
	return cloneTable(builtinContentEncodings)
}

// MergeTable returns base with overrides applied on top. Keys are normalized
// to lowercase with a leading dot so "GZ" and ".gz" address the same entry.
// An empty override value removes the entry.
func MergeTable(base, overrides map[string]string) map[string]string {
	out := cloneTable(base)
	for ext, value := range overrides {
		key := normalizeExt(ext)
		if value == "" {
			delete(out, key)
			continue
		}
		out[key] = value
	}
	return out
}

func cloneTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[normalizeExt(k)] = v
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
