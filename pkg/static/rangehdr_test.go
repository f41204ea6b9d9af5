package static

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	t.Run("StartAndEndUseEndAsGiven", func(t *testing.T) {
		w, err := ParseRange("bytes=0-9", 100)
		require.NoError(t, err)

		assert.Equal(t, RangeWindow{Start: 0, End: 9, Total: 100}, w)
		assert.Equal(t, int64(9), w.Length())
		assert.Equal(t, "bytes 0-9/100", w.ContentRange())
	})

	t.Run("OpenEndCoversRemainder", func(t *testing.T) {
		w, err := ParseRange("bytes=5-", 100)
		require.NoError(t, err)

		assert.Equal(t, int64(5), w.Start)
		assert.Equal(t, int64(100), w.End)
		assert.Equal(t, int64(95), w.Length())
	})

	t.Run("OpenStartBeginsAtZero", func(t *testing.T) {
		w, err := ParseRange("bytes=-20", 100)
		require.NoError(t, err)

		assert.Equal(t, int64(0), w.Start)
		assert.Equal(t, int64(20), w.End)
	})

	t.Run("EndClampedToSize", func(t *testing.T) {
		w, err := ParseRange("bytes=10-5000", 100)
		require.NoError(t, err)

		assert.Equal(t, int64(100), w.End)
		assert.Equal(t, "bytes 10-100/100", w.ContentRange())
	})

	t.Run("EmptyWindowAllowed", func(t *testing.T) {
		w, err := ParseRange("bytes=7-7", 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.Length())
	})

	t.Run("EmptyFileOpenRange", func(t *testing.T) {
		w, err := ParseRange("bytes=0-", 0)
		require.NoError(t, err)
		assert.Equal(t, RangeWindow{}, w)
	})

	t.Run("WhitespaceTolerated", func(t *testing.T) {
		w, err := ParseRange("  bytes = 1 - 3 ", 100)
		require.NoError(t, err)
		assert.Equal(t, RangeWindow{Start: 1, End: 3, Total: 100}, w)
	})
}

func TestParseRangeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"MissingUnit", "0-9"},
		{"WrongUnit", "items=0-9"},
		{"UppercaseUnit", "BYTES=0-9"},
		{"MultipleRanges", "bytes=0-9,20-29"},
		{"NoDash", "bytes=10"},
		{"TooManyDashes", "bytes=1-2-3"},
		{"BothBoundsMissing", "bytes=-"},
		{"NonNumericStart", "bytes=a-9"},
		{"NonNumericEnd", "bytes=0-z"},
		{"StartAfterEnd", "bytes=9-3"},
		{"StartPastSize", "bytes=500-"},
		{"StartAtSize", "bytes=100-"},
		{"StartAtSizeWithEnd", "bytes=100-200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRange(tt.header, 100)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRange)
		})
	}
}
