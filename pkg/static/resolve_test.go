package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Traversal Safety
// ============================================================================

func TestIsDangerous(t *testing.T) {
	dangerous := []string{"..", "a/b", "/", "../etc", "x/.."}
	for _, seg := range dangerous {
		assert.True(t, IsDangerous(seg), seg)
	}

	safe := []string{"", ".", "...", "..foo", "file.txt", "dir"}
	for _, seg := range safe {
		assert.False(t, IsDangerous(seg), seg)
	}
}

func TestChildRejectsDangerousWithoutTouchingFilesystem(t *testing.T) {
	// The root does not exist, so any filesystem lookup would report NotFound rather
	// than InvalidPath.
	n := New(filepath.Join(t.TempDir(), "missing"), Options{})

	for _, seg := range []string{"..", "a/b", "../../etc/passwd"} {
		t.Run(seg, func(t *testing.T) {
			_, err := n.Child(seg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPath)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

// ============================================================================
// Resolution
// ============================================================================

func TestChild(t *testing.T) {
	root := writeTree(t, map[string]string{
		"hello.txt":       "hello",
		"docs/index.html": "<h1>docs</h1>",
		"empty/":          "",
		"about.html":      "about",
		"script.py":       "print()",
		"plain/":          "",
	})

	t.Run("DirectChild", func(t *testing.T) {
		res, err := New(root, Options{}).Child("hello.txt")
		require.NoError(t, err)

		node, ok := res.(*Node)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "hello.txt"), node.Path())
		assert.Equal(t, int64(5), node.Size())
	})

	t.Run("MissingChild", func(t *testing.T) {
		_, err := New(root, Options{}).Child("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("FileHasNoChildren", func(t *testing.T) {
		res, err := New(root, Options{}).Child("hello.txt")
		require.NoError(t, err)

		_, err = res.(*Node).Child("anything")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("IndexFile", func(t *testing.T) {
		res, err := New(filepath.Join(root, "docs"), Options{}).Child("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "docs", "index.html"), res.(*Node).Path())
	})

	t.Run("IndexOrder", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"index.htm": "a", "default.html": "b"})
		res, err := New(dir, Options{IndexNames: []string{"default.html", "index.htm"}}).Child("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "default.html"), res.(*Node).Path())
	})

	t.Run("ListingWithoutIndex", func(t *testing.T) {
		res, err := New(filepath.Join(root, "empty"), Options{DirectoryListing: true}).Child("")
		require.NoError(t, err)
		_, ok := res.(*Listing)
		assert.True(t, ok)
	})

	t.Run("ListingDisabled", func(t *testing.T) {
		_, err := New(filepath.Join(root, "empty"), Options{}).Child("")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("IgnoredExtension", func(t *testing.T) {
		res, err := New(root, Options{IgnoredExts: []string{".py", ".html"}}).Child("about")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "about.html"), res.(*Node).Path())
	})

	t.Run("IgnoredExtensionOrder", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"page.txt": "t", "page.html": "h"})
		res, err := New(dir, Options{IgnoredExts: []string{".txt", ".html"}}).Child("page")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "page.txt"), res.(*Node).Path())
	})

	t.Run("WildcardExtension", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"page.txt": "t", "page.html": "h"})
		res, err := New(dir, Options{IgnoredExts: []string{"*"}}).Child("page")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "page.html"), res.(*Node).Path())
	})

	t.Run("WildcardIgnoresGlobSegments", func(t *testing.T) {
		_, err := New(root, Options{IgnoredExts: []string{"*"}}).Child("*")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("IgnoredExtensionNotFound", func(t *testing.T) {
		_, err := New(root, Options{IgnoredExts: []string{".php"}}).Child("about")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestChildDoesNotShareIndexNames(t *testing.T) {
	root := writeTree(t, map[string]string{"sub/": ""})
	parent := New(root, Options{})

	res, err := parent.Child("sub")
	require.NoError(t, err)
	child := res.(*Node)

	child.indexNames[0] = "changed"
	assert.Equal(t, DefaultIndexNames[0], parent.indexNames[0])
}

func TestChildRestatsBeforeResolving(t *testing.T) {
	root := writeTree(t, map[string]string{"sub/": ""})
	n := New(root, Options{})
	require.True(t, n.IsDir())

	require.NoError(t, os.RemoveAll(root))

	_, err := n.Child("anything")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, n.Exists())
}

// ============================================================================
// Processors
// ============================================================================

func TestChildProcessorDispatch(t *testing.T) {
	root := writeTree(t, map[string]string{"page.TPL": "template"})
	services := NewServices()

	var gotPath string
	var gotServices *Services
	opts := Options{
		Services: services,
		Processors: map[string]Processor{
			"tpl": func(path string, s *Services) (Resource, error) {
				gotPath, gotServices = path, s
				return NewData([]byte("rendered"), "text/plain"), nil
			},
		},
	}

	res, err := New(root, opts).Child("page.TPL")
	require.NoError(t, err)

	data, ok := res.(*Data)
	require.True(t, ok)
	assert.Equal(t, "rendered", string(data.Body))
	assert.Equal(t, filepath.Join(root, "page.TPL"), gotPath)
	assert.Same(t, services, gotServices)
}

func TestDefaultProcessorsServeAsIs(t *testing.T) {
	root := writeTree(t, map[string]string{"raw.asis": "Status: 200 OK\n\nbody"})

	res, err := New(root, Options{}).Child("raw.asis")
	require.NoError(t, err)
	_, ok := res.(*AsIs)
	assert.True(t, ok)
}
