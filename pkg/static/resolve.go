package static

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// IsDangerous reports whether a path segment could escape its directory.
func IsDangerous(segment string) bool {
	return segment == ".." ||
		strings.Contains(segment, "/") ||
		strings.ContainsRune(segment, os.PathSeparator)
}

// Child resolves one path segment beneath n.
//
// A non-empty segment names a directory entry, retried with each ignored
// extension when it does not exist. An empty segment selects the first
// existing index file, or a Listing when there is none. The result is
// passed through the processor registered for its extension, if any.
//
// Dangerous segments fail with ErrInvalidPath before the filesystem is
// consulted; anything else that cannot be resolved fails with ErrNotFound.
func (n *Node) Child(segment string) (Resource, error) {
	if IsDangerous(segment) {
		return nil, fmt.Errorf("%w: segment %q", ErrInvalidPath, segment)
	}

	n.Restat()
	if !n.IsDir() {
		return nil, ErrNotFound
	}

	var child *Node
	if segment == "" {
		child = n.findIndex()
		if child == nil {
			return n.listing()
		}
	} else {
		child = n.similar(filepath.Join(n.path, segment))
		if !child.Exists() {
			child = n.findIgnored(segment)
			if child == nil {
				return nil, ErrNotFound
			}
		}
	}

	if p, ok := child.processor(); ok {
		res, err := p(child.path, n.opts.Services)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", child.path, err)
		}
		return res, nil
	}
	return child, nil
}

func (n *Node) findIndex() *Node {
	for _, name := range n.indexNames {
		child := n.similar(filepath.Join(n.path, name))
		if child.Exists() {
			return child
		}
	}
	return nil
}

func (n *Node) findIgnored(segment string) *Node {
	base := filepath.Join(n.path, segment)
	for _, ext := range n.opts.IgnoredExts {
		if ext == "*" {
			if child := n.findAnyExt(base); child != nil {
				return child
			}
			continue
		}
		child := n.similar(base + ext)
		if child.Exists() {
			return child
		}
	}
	return nil
}

// findAnyExt returns the first entry, in name order, matching base.*.
func (n *Node) findAnyExt(base string) *Node {
	if strings.ContainsAny(filepath.Base(base), `*?[\`) {
		return nil
	}
	matches, err := filepath.Glob(base + ".*")
	if err != nil || len(matches) == 0 {
		return nil
	}
	slices.Sort(matches)
	for _, m := range matches {
		child := n.similar(m)
		if child.Exists() {
			return child
		}
	}
	return nil
}

func (n *Node) listing() (Resource, error) {
	if !n.opts.DirectoryListing {
		return nil, ErrNotFound
	}
	entries, err := os.ReadDir(n.path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: list %s", ErrForbidden, n.path)
		}
		return nil, fmt.Errorf("list %s: %w", n.path, err)
	}
	return newListing(n.path, entries, n.opts), nil
}
