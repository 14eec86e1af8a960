package blobstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	w, err := store.Create(ctx, "a/data.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello "))
	require.NoError(t, err)

	// Not visible until closed
	_, err = store.Open(ctx, "a/data.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = w.Write([]byte("world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := ReadAll(ctx, store, "a/data.csv")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
	assert.Equal(t, "mem://a/data.csv", Location(store, "a/data.csv"))

	require.NoError(t, store.Put(ctx, "a/queries.csv", []byte("q")))
	require.NoError(t, store.Put(ctx, "b/other", []byte("o")))

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/data.csv", "a/queries.csv"}, names)

	require.NoError(t, store.Delete(ctx, "a/data.csv"))
	assert.Nil(t, store.Bytes("a/data.csv"))
}

func TestMemoryStore_PutCopies(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(context.Background(), "x", data))

	data[0] = 'z'
	assert.Equal(t, "abc", string(store.Bytes("x")))
}

func TestMemoryStore_Abort(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	w, err := store.Create(ctx, "x")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	_, err = w.Write([]byte("more"))
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, w.Close(), ErrAborted)
	assert.Nil(t, store.Bytes("x"))
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			_ = store.Put(ctx, name, []byte(name))
			_, _ = store.List(ctx, "")
		}(i)
	}
	wg.Wait()

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, names, 16)
}
