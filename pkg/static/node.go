package static

import (
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

// DefaultChunkSize is the number of bytes a Transfer reads per Resume.
const DefaultChunkSize = 64 << 10

// Processor builds a substitute resource for a resolved file. Processors
// are keyed by extension in Options.Processors.
//
// services is the tree's shared registry. Its path cache (CachePath,
// CachedPath) lets a processor reuse the resource it built for a path, and
// Options returns the tree configuration for transfers it starts.
type Processor func(path string, services *Services) (Resource, error)

// Options configures a tree of nodes. A root node owns one Options value
// and every node resolved beneath it shares it read-only.
type Options struct {
	// DefaultType is the Content-Type used when the extension is unknown.
	DefaultType string

	// IgnoredExts are suffixes probed, in order, when a segment does not
	// exist as given. "*" matches any extension.
	IgnoredExts []string

	// IndexNames are probed, in order, for a directory request.
	IndexNames []string

	// DirectoryListing enables a Listing when no index file exists.
	DirectoryListing bool

	// Processors maps lowercase extensions (".asis") to processors.
	Processors map[string]Processor

	ContentTypes     map[string]string
	ContentEncodings map[string]string

	// ChunkSize bounds each read of a Transfer.
	ChunkSize int

	// SniffContentType detects the type from file content when the
	// extension falls back to DefaultType.
	SniffContentType bool

	// ReadLimiter, when set, bounds concurrent file reads across all
	// transfers sharing it.
	ReadLimiter *semaphore.Weighted

	Services *Services
	Metrics  Metrics
}

// withDefaults returns a copy of o with zero values filled in.
func (o Options) withDefaults() Options {
	if o.DefaultType == "" {
		o.DefaultType = DefaultType
	}
	if o.IndexNames == nil {
		o.IndexNames = slices.Clone(DefaultIndexNames)
	}
	if o.ContentTypes == nil {
		o.ContentTypes = DefaultContentTypes()
	}
	if o.ContentEncodings == nil {
		o.ContentEncodings = DefaultContentEncodings()
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Services == nil {
		o.Services = NewServices()
	}

	if o.Processors == nil {
		o.Processors = map[string]Processor{".asis": AsIsProcessor}
	}
	processors := make(map[string]Processor, len(o.Processors))
	for ext, p := range o.Processors {
		processors[normalizeExt(ext)] = p
	}
	o.Processors = processors

	return o
}

// Node is a filesystem entry addressed by an absolute path.
//
// A Node caches the result of its last stat; Restat must be called before
// any decision that depends on existence, type, size, or mtime. Nodes are
// not safe for concurrent use: each request works on its own copy.
type Node struct {
	path       string
	opts       *Options
	indexNames []string

	info fs.FileInfo

	// Negotiated type and encoding, computed on first render. known is
	// false while typ is only the configured default.
	typ, enc string
	typed    bool
	known    bool
}

// New returns a root node for path. The tree's Options are registered in
// its Services under OptionsService, replacing those of any earlier tree
// built on the same Services.
func New(path string, opts Options) *Node {
	o := opts.withDefaults()
	o.Services.Register(OptionsService, &o)
	n := &Node{
		path:       path,
		opts:       &o,
		indexNames: slices.Clone(o.IndexNames),
	}
	n.Restat()
	return n
}

// similar returns a node for path sharing n's configuration.
func (n *Node) similar(path string) *Node {
	child := &Node{
		path:       path,
		opts:       n.opts,
		indexNames: slices.Clone(n.indexNames),
	}
	child.Restat()
	return child
}

// Path returns the filesystem path of the node.
func (n *Node) Path() string { return n.path }

// Restat refreshes the cached file information.
func (n *Node) Restat() {
	info, err := os.Stat(n.path)
	if err != nil {
		n.info = nil
		return
	}
	n.info = info
}

func (n *Node) Exists() bool { return n.info != nil }

func (n *Node) IsDir() bool { return n.info != nil && n.info.IsDir() }

func (n *Node) Size() int64 {
	if n.info == nil {
		return 0
	}
	return n.info.Size()
}

func (n *Node) ModTime() time.Time {
	if n.info == nil {
		return time.Time{}
	}
	return n.info.ModTime()
}

// negotiate returns the cached type and encoding of the node. known
// reports whether typ came from the type table rather than DefaultType.
func (n *Node) negotiate() (typ, enc string, known bool) {
	if !n.typed {
		n.typ, n.enc, n.known = LookupType(n.path, n.opts.ContentTypes, n.opts.ContentEncodings)
		if !n.known {
			n.typ = n.opts.DefaultType
		}
		n.typed = true
	}
	return n.typ, n.enc, n.known
}

// processor returns the processor registered for the node's extension.
func (n *Node) processor() (Processor, bool) {
	_, ext := splitExt(n.path)
	if ext == "" {
		return nil, false
	}
	p, ok := n.opts.Processors[strings.ToLower(ext)]
	return p, ok
}
