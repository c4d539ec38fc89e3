package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)

	store.Delete("key1")
	_, ok = store.Get("key1")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("str", "value")
	_ = store.Set("int", 42)
	_ = store.Set("int64", int64(16<<20))
	_ = store.Set("float", float64(7))
	_ = store.Set("strings", []string{"a", "b"})
	_ = store.Set("anys", []any{"sha256", 3, "blake3"})

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, "", store.GetString("int"))
	assert.Equal(t, 42, store.GetInt("int"))
	assert.Equal(t, 16<<20, store.GetInt("int64"))
	assert.Equal(t, 7, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("str"))
	assert.Equal(t, int64(16<<20), store.GetInt64("int64"))
	assert.Equal(t, int64(42), store.GetInt64("int"))
	assert.Zero(t, store.GetInt64("str"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("strings"))
	assert.Equal(t, []string{"sha256", "blake3"}, store.GetStringSlice("anys"))
	assert.Nil(t, store.GetStringSlice("str"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SaveLoadNoOp(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", "value")

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "value", store.GetString("key"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("shared", i)
		}()
		go func() {
			defer wg.Done()
			store.GetInt("shared")
		}()
	}
	wg.Wait()

	_, ok := store.Get("shared")
	assert.True(t, ok)
}

func TestOverlay(t *testing.T) {
	base := NewConfigStore()
	_ = base.Set("analysis.max_depth", 8)
	_ = base.Set("hash.algorithms", []any{"sha256"})
	_ = base.Set("analysis.temp_dir", "/tmp")
	_ = base.Set("analysis.spill_threshold", int64(1<<20))

	overlay := NewOverlay(base)
	require.NoError(t, overlay.Set("analysis.max_depth", 2))
	require.NoError(t, overlay.Set("hash.algorithms", []string{"md5", "sha1"}))

	t.Run("overrides win", func(t *testing.T) {
		assert.Equal(t, 2, overlay.GetInt("analysis.max_depth"))
		assert.Equal(t, []string{"md5", "sha1"}, overlay.GetStringSlice("hash.algorithms"))
		val, ok := overlay.Get("analysis.max_depth")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})

	t.Run("base is read through", func(t *testing.T) {
		assert.Equal(t, "/tmp", overlay.GetString("analysis.temp_dir"))
		assert.Equal(t, int64(1<<20), overlay.GetInt64("analysis.spill_threshold"))
		_, ok := overlay.Get("missing")
		assert.False(t, ok)
	})

	t.Run("base is untouched", func(t *testing.T) {
		assert.Equal(t, 8, base.GetInt("analysis.max_depth"))
		require.NoError(t, overlay.Save())
		assert.Equal(t, 8, base.GetInt("analysis.max_depth"))
		assert.Equal(t, base.Path(), overlay.Path())
		assert.NoError(t, overlay.Load())
	})
}
