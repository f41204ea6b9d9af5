package static

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServices(t *testing.T) {
	t.Run("RegisterAndLookup", func(t *testing.T) {
		s := NewServices()
		s.Register("clock", 42)

		got, ok := s.Lookup("clock")
		require.True(t, ok)
		assert.Equal(t, 42, got)

		_, ok = s.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("ListerRequiresInterface", func(t *testing.T) {
		s := NewServices()
		s.Register(ListerService, "not a lister")

		_, ok := s.Lister()
		assert.False(t, ok)
	})

	t.Run("NewRegistersOptions", func(t *testing.T) {
		s := NewServices()
		_, ok := s.Options()
		assert.False(t, ok)

		New(t.TempDir(), Options{Services: s, ChunkSize: 99})

		opts, ok := s.Options()
		require.True(t, ok)
		assert.Equal(t, 99, opts.ChunkSize)
		assert.Same(t, s, opts.Services)
	})

	t.Run("PathCache", func(t *testing.T) {
		s := NewServices()
		res := NewData([]byte("x"), "text/plain")
		s.CachePath("/srv/a.tpl", res)

		got, ok := s.CachedPath("/srv/a.tpl")
		require.True(t, ok)
		assert.Same(t, res, got)

		_, ok = s.CachedPath("/srv/b.tpl")
		assert.False(t, ok)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		s := NewServices()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("svc-%d", i)
				s.Register(key, i)
				_, _ = s.Lookup(key)
				s.CachePath(key, NewData(nil, "text/plain"))
				_, _ = s.CachedPath(key)
			}(i)
		}
		wg.Wait()

		v, ok := s.Lookup("svc-49")
		require.True(t, ok)
		assert.Equal(t, 49, v)
	})
}

func TestProcessorUsesPathCache(t *testing.T) {
	root := writeTree(t, map[string]string{"page.tpl": "x"})
	builds := 0
	cached := func(path string, s *Services) (Resource, error) {
		if res, ok := s.CachedPath(path); ok {
			return res, nil
		}
		builds++
		res := NewData([]byte("built"), "text/plain")
		s.CachePath(path, res)
		return res, nil
	}

	n := New(root, Options{Processors: map[string]Processor{".tpl": cached}})
	for range 3 {
		_, err := n.Child("page.tpl")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds)
}
