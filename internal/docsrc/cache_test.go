package docsrc

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingCache(t *testing.T, fetch func(name string) ([]byte, error)) (*Cache, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	c := &Cache{
		fetch: func(name string) ([]byte, error) {
			calls.Add(1)
			return fetch(name)
		},
		done: make(map[string]result),
	}
	return c, &calls
}

func TestCacheFetchesOnce(t *testing.T) {
	c, calls := countingCache(t, func(name string) ([]byte, error) {
		return []byte("pdf bytes for " + name), nil
	})

	for i := 0; i < 5; i++ {
		data, err := c.Get("report.pdf")
		require.NoError(t, err)
		assert.Equal(t, "pdf bytes for report.pdf", string(data))
	}
	assert.Equal(t, int32(1), calls.Load())

	_, err := c.Get("other.pdf")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCacheKeepsFailures(t *testing.T) {
	c, calls := countingCache(t, func(name string) ([]byte, error) {
		return nil, errors.New("upstream down")
	})

	_, err := c.Get("gone.pdf")
	require.Error(t, err)
	_, err = c.Get("gone.pdf")
	require.Error(t, err)

	assert.Equal(t, int32(1), calls.Load(), "a failed fetch is never retried")
}

func TestCacheConcurrentRequestsShareOneFetch(t *testing.T) {
	c, calls := countingCache(t, func(name string) ([]byte, error) {
		return []byte("x"), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get("same.pdf")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCacheCleansNames(t *testing.T) {
	c, _ := countingCache(t, func(name string) ([]byte, error) {
		assert.Equal(t, "passwd", name)
		return []byte("ok"), nil
	})

	_, err := c.Get("../../etc/passwd")
	require.NoError(t, err)

	_, err = c.Get("")
	require.Error(t, err)
}

func TestDirCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.pdf"), []byte("content"), 0o644))

	c := NewDirCache(dir)
	data, err := c.Get("doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = c.Get("missing.pdf")
	require.Error(t, err)
}

func TestNewPicksBackendByScheme(t *testing.T) {
	assert.NotNil(t, New("http://example.com/docs"))
	assert.NotNil(t, New("./docs"))
}
