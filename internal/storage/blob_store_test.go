package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStoreRoundTrip(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)

	content := []byte("image bytes")
	require.NoError(t, store.Save("abcd1234.jpg", content))

	assert.True(t, store.Exists("abcd1234.jpg"))

	data, err := store.Read("abcd1234.jpg")
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestBlobStoreShardsByPrefix(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBlobStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("abfile.jpg", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "ab", "abfile.jpg"))
	assert.NoError(t, err)

	// 名称过短时落入默认子目录
	require.NoError(t, store.Save("a.jpg", []byte("y")))
	_, err = os.Stat(filepath.Join(dir, "00", "a.jpg"))
	assert.NoError(t, err)
}

func TestBlobStoreReadMissing(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read("missing.jpg")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestBlobStoreRejectsPathTraversalNames(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "blobs")
	store, err := NewBlobStore(dir)
	require.NoError(t, err)

	// 上级目录中预置的文件绝不能通过存储读到。
	// 以两个点开头的名称会把散列前缀变成 ".."，指向存储目录之外。
	planted := filepath.Join(parent, "..secret.png")
	require.NoError(t, os.WriteFile(planted, []byte("outside-the-store"), 0644))

	_, err = store.Read("..secret.png")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	// 写入同样被拒绝，且不在存储目录之外落盘
	assert.ErrorIs(t, store.Save("..evil.png", []byte("x")), ErrInvalidBlobName)
	_, statErr := os.Stat(filepath.Join(parent, "..evil.png"))
	assert.True(t, os.IsNotExist(statErr))

	for _, name := range []string{"", ".", "..", ".hidden.jpg", "a/b.jpg", `a\b.jpg`, "../up.jpg"} {
		assert.ErrorIs(t, store.Save(name, []byte("x")), ErrInvalidBlobName, name)
		assert.ErrorIs(t, store.Delete(name), ErrInvalidBlobName, name)
		assert.False(t, store.Exists(name), name)
	}
}

func TestBlobStoreDeleteIsIdempotent(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("gone1234.jpg", []byte("x")))
	require.NoError(t, store.Delete("gone1234.jpg"))
	assert.False(t, store.Exists("gone1234.jpg"))

	// 再次删除不报错
	assert.NoError(t, store.Delete("gone1234.jpg"))

	store.DeleteAll([]string{"", "also-missing.jpg"})
}
