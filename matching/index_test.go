package matching

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/hashmap"
	"pgregory.net/rapid"
)

func TestOrderIndex(t *testing.T) {
	t.Run("initial capacity", func(t *testing.T) {
		require.Equal(t, 8, NewOrderIndex(0).Capacity())
		require.Equal(t, 2048, NewOrderIndex(1024).Capacity())
		require.Equal(t, 2048, NewOrderIndex(1000).Capacity())
	})

	t.Run("insert find erase", func(t *testing.T) {
		idx := NewOrderIndex(4)
		idx.Insert(10, 1)
		idx.Insert(20, 2)

		ref, ok := idx.Find(10)
		require.True(t, ok)
		require.Equal(t, Ref(1), ref)
		_, ok = idx.Find(30)
		require.False(t, ok)

		require.True(t, idx.Erase(10))
		require.False(t, idx.Erase(10))
		_, ok = idx.Find(10)
		require.False(t, ok)
		require.Equal(t, 1, idx.Len())

		// reinsert over the tombstone
		idx.Insert(10, 7)
		ref, ok = idx.Find(10)
		require.True(t, ok)
		require.Equal(t, Ref(7), ref)
		require.Equal(t, 2, idx.Len())
	})

	t.Run("slot get or insert", func(t *testing.T) {
		idx := NewOrderIndex(4)
		p, inserted := idx.Slot(5)
		require.True(t, inserted)
		*p = 3
		p, inserted = idx.Slot(5)
		require.False(t, inserted)
		require.Equal(t, Ref(3), *p)
		require.Equal(t, 1, idx.Len())
	})

	t.Run("growth keeps entries", func(t *testing.T) {
		idx := NewOrderIndex(0)
		for i := uint64(1); i <= 1000; i++ {
			idx.Insert(i*7919, Ref(i))
		}
		require.Equal(t, 1000, idx.Len())
		require.GreaterOrEqual(t, idx.Capacity(), 2000)
		for i := uint64(1); i <= 1000; i++ {
			ref, ok := idx.Find(i * 7919)
			require.True(t, ok)
			require.Equal(t, Ref(i), ref)
		}
	})

	t.Run("tombstones do not exhaust the table", func(t *testing.T) {
		idx := NewOrderIndex(4)
		capacity := idx.Capacity()
		// churn with a single live entry, every erase leaves a tombstone
		for i := uint64(0); i < 10_000; i++ {
			idx.Insert(i, Ref(i+1))
			require.True(t, idx.Erase(i))
		}
		require.Equal(t, 0, idx.Len())
		require.Equal(t, capacity, idx.Capacity())
		_, ok := idx.Find(123456)
		require.False(t, ok)
	})

	t.Run("iterate and clean", func(t *testing.T) {
		idx := NewOrderIndex(4)
		idx.Insert(1, 1)
		idx.Insert(2, 2)
		idx.Insert(3, 3)
		idx.Erase(2)
		seen := map[uint64]Ref{}
		idx.Iterate(func(key uint64, ref Ref) bool {
			seen[key] = ref
			return true
		})
		require.Equal(t, map[uint64]Ref{1: 1, 3: 3}, seen)

		idx.Clean()
		require.Equal(t, 0, idx.Len())
		_, ok := idx.Find(1)
		require.False(t, ok)
	})
}

func TestOrderIndexModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := NewOrderIndex(rapid.IntRange(0, 64).Draw(t, "capacity"))
		model := hashmap.New[uint64, Ref](0)
		// small key space makes collisions and reuse of erased keys likely
		key := rapid.Uint64Range(0, 256)

		t.Repeat(map[string]func(*rapid.T){
			"insert": func(t *rapid.T) {
				k := key.Draw(t, "key")
				ref := Ref(rapid.Uint32Range(1, 1<<20).Draw(t, "ref"))
				idx.Insert(k, ref)
				model.Set(k, ref)
			},
			"erase": func(t *rapid.T) {
				k := key.Draw(t, "key")
				_, expected := model.Delete(k)
				if idx.Erase(k) != expected {
					t.Fatalf("erase %d: expected %v", k, expected)
				}
			},
			"find": func(t *rapid.T) {
				k := key.Draw(t, "key")
				expectedRef, expected := model.Get(k)
				ref, ok := idx.Find(k)
				if ok != expected || ref != expectedRef {
					t.Fatalf("find %d: got (%d, %v), expected (%d, %v)", k, ref, ok, expectedRef, expected)
				}
			},
			"": func(t *rapid.T) {
				if idx.Len() != model.Len() {
					t.Fatalf("len %d, expected %d", idx.Len(), model.Len())
				}
			},
		})
	})
}

func BenchmarkOrderIndex(b *testing.B) {
	idx := NewOrderIndex(1024)
	for i := 0; i < b.N; i++ {
		k := uint64(i)
		idx.Insert(k, Ref(i&0xffff+1))
		if i >= 512 {
			idx.Erase(k - 512)
		}
	}
}
