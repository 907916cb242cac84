package mcpserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputTestDoc = `
openapi: 3.1.0
info:
  title: Input fixtures
  version: 1.0.0
paths:
  /things:
    get:
      operationId: listThings
      responses:
        "200":
          description: ok
`

func TestResolveRequiresExactlyOneInput(t *testing.T) {
	tests := []struct {
		name  string
		input specInput
	}{
		{name: "neither", input: specInput{}},
		{name: "both", input: specInput{File: "a.yaml", Content: "openapi: 3.1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.resolve()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exactly one of file or content")
		})
	}
}

func TestResolveContent(t *testing.T) {
	bundleCache.reset()
	b, err := specInput{Content: inputTestDoc}.resolve()
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NotNil(t, b.router)
	assert.NotNil(t, b.validators)
	assert.NotNil(t, b.selector)

	op, ok := b.router.Table().Operation("listThings")
	require.True(t, ok)
	assert.Equal(t, "/things", op.Path)
}

func TestResolveFile(t *testing.T) {
	bundleCache.reset()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(inputTestDoc), 0o600))

	b, err := specInput{File: path}.resolve()
	require.NoError(t, err)
	assert.NotNil(t, b.router)
	assert.Equal(t, 1, bundleCache.size())

	// Second resolve hits the cache: same bundle pointer back.
	again, err := specInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Same(t, b, again)
}

func TestResolveMissingFile(t *testing.T) {
	_, err := specInput{File: filepath.Join(t.TempDir(), "absent.yaml")}.resolve()
	require.Error(t, err)
}

func TestMakeCacheKey(t *testing.T) {
	t.Run("content keyed by hash", func(t *testing.T) {
		a := makeCacheKey(specInput{Content: "one"})
		b := makeCacheKey(specInput{Content: "one"})
		c := makeCacheKey(specInput{Content: "two"})
		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)
	})

	t.Run("file keyed by path and mtime", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		first := makeCacheKey(specInput{File: path})
		require.NotEmpty(t, first)

		newTime := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, newTime, newTime))
		second := makeCacheKey(specInput{File: path})
		assert.NotEqual(t, first, second)
	})

	t.Run("unstattable file yields no key", func(t *testing.T) {
		assert.Empty(t, makeCacheKey(specInput{File: filepath.Join(t.TempDir(), "absent.yaml")}))
	})
}

func TestCacheExpiry(t *testing.T) {
	bundleCache.reset()
	b := &bundle{}
	bundleCache.putWithTTL("k", b, -time.Second)
	assert.Nil(t, bundleCache.get("k"))
	assert.Equal(t, 0, bundleCache.size())
}

func TestCacheEviction(t *testing.T) {
	c := &bundleCacheStore{entries: make(map[string]*cacheEntry), maxSize: 2}
	c.putWithTTL("a", &bundle{}, time.Minute)
	c.putWithTTL("b", &bundle{}, time.Minute)
	c.putWithTTL("c", &bundle{}, time.Minute)
	assert.Equal(t, 2, c.size())
	assert.Nil(t, c.get("a"))
}
