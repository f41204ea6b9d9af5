package static

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTables(t *testing.T) {
	t.Run("ContainsOverrides", func(t *testing.T) {
		types := DefaultContentTypes()
		assert.Equal(t, "text/plain", types[".java"])
		assert.Equal(t, "application/x-gtar", types[".tgz"])
		assert.Equal(t, "text/html", types[".html"])
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		types := DefaultContentTypes()
		types[".html"] = "changed"
		assert.Equal(t, "text/html", DefaultContentTypes()[".html"])
	})

	t.Run("Encodings", func(t *testing.T) {
		enc := DefaultContentEncodings()
		assert.Equal(t, "gzip", enc[".gz"])
		assert.Equal(t, "bzip2", enc[".bz2"])
	})
}

func TestMergeTable(t *testing.T) {
	base := map[string]string{".txt": "text/plain", ".md": "text/markdown"}

	merged := MergeTable(base, map[string]string{
		"TXT":    "text/x-custom",
		".md":    "",
		" .yaml": "application/yaml",
	})

	assert.Equal(t, "text/x-custom", merged[".txt"])
	assert.NotContains(t, merged, ".md")
	assert.Equal(t, "application/yaml", merged[".yaml"])
	assert.Equal(t, "text/plain", base[".txt"], "base must not change")
}
