package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("output.dir", "/out"))
	require.NoError(t, store.Set("output.dir", "/out2"))

	val, ok := store.Get("output.dir")
	assert.True(t, ok)
	assert.Equal(t, "/out2", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", 7))
	require.NoError(t, store.Set("i64", int64(9)))
	require.NoError(t, store.Set("f", 2.5))
	require.NoError(t, store.Set("b", true))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("s"), "text"},
		{"string wrong type", store.GetString("i"), ""},
		{"int", store.GetInt("i"), 7},
		{"int from int64", store.GetInt("i64"), 9},
		{"int from float", store.GetInt("f"), 2},
		{"int wrong type", store.GetInt("s"), 0},
		{"float", store.GetFloat("f"), 2.5},
		{"float from int", store.GetFloat("i"), 7.0},
		{"float wrong type", store.GetFloat("b"), 0.0},
		{"bool", store.GetBool("b"), true},
		{"bool wrong type", store.GetBool("s"), false},
		{"missing int", store.GetInt("nope"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("k", n)
			_ = store.GetInt("k")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("k")
	assert.True(t, ok)
}
