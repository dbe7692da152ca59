package transaction

import (
	"testing"

	"github.com/pingcap-incubator/nestkv/kv/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(data map[string]string) (*Store, *storage.MemStorage) {
	base := storage.NewMemStorageWithData(data)
	return NewStore(base), base
}

func assertNotSet(t *testing.T, s *Session, key string) {
	_, ok := s.Get(key)
	assert.False(t, ok, "expected %s to be unset", key)
}

func assertValue(t *testing.T, s *Session, key, expected string) {
	v, ok := s.Get(key)
	assert.True(t, ok, "expected %s to be set", key)
	assert.Equal(t, expected, v)
}

func TestSetGetWithoutTransaction(t *testing.T) {
	store, base := newTestStore(nil)
	s := store.NewSession()

	s.Set("foo", "123")
	assertValue(t, s, "foo", "123")

	v, ok := base.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, "123", v)
}

func TestDeleteAbsentKey(t *testing.T) {
	store, base := newTestStore(map[string]string{"bar": "1"})
	s := store.NewSession()

	s.Delete("foo")
	assertNotSet(t, s, "foo")
	assert.Equal(t, map[string]string{"bar": "1"}, storage.Snapshot(base))

	s.Begin()
	s.Delete("foo")
	assertNotSet(t, s, "foo")
	require.True(t, s.Commit())
	assert.Equal(t, map[string]string{"bar": "1"}, storage.Snapshot(base))
}

func TestReadYourWrites(t *testing.T) {
	store, base := newTestStore(nil)
	s := store.NewSession()

	s.Begin()
	s.Set("foo", "456")
	assertValue(t, s, "foo", "456")

	_, ok := base.Get("foo")
	assert.False(t, ok)

	s.Set("foo", "789")
	assertValue(t, s, "foo", "789")
	s.Delete("foo")
	assertNotSet(t, s, "foo")
	s.Set("foo", "1")
	assertValue(t, s, "foo", "1")
	_, ok = base.Get("foo")
	assert.False(t, ok)
}

func TestCommitAndRollbackWithoutTransaction(t *testing.T) {
	store, _ := newTestStore(nil)
	s := store.NewSession()

	assert.False(t, s.Commit())
	assert.False(t, s.Rollback())
	assert.False(t, s.IsActive())

	s.Begin()
	assert.True(t, s.IsActive())
	assert.True(t, s.Rollback())
	assert.False(t, s.Commit())
}

func TestNestedCommitAndRollback(t *testing.T) {
	store, _ := newTestStore(nil)
	s := store.NewSession()

	s.Set("bar", "123")
	s.Begin()
	s.Set("foo", "456")
	assertValue(t, s, "bar", "123")
	s.Delete("bar")
	require.True(t, s.Commit())
	assertNotSet(t, s, "bar")
	assert.False(t, s.Rollback())
	assertValue(t, s, "foo", "456")
}

func TestNestedRollback(t *testing.T) {
	store, _ := newTestStore(nil)
	s := store.NewSession()

	s.Set("foo", "123")
	s.Set("bar", "456")
	s.Begin()
	s.Set("foo", "456")
	s.Begin()
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, 2, s.Count("456"))
	s.Set("foo", "789")
	require.True(t, s.Rollback())
	assertValue(t, s, "foo", "456")
	s.Delete("foo")
	require.True(t, s.Rollback())
	assertValue(t, s, "foo", "123")
	assert.False(t, s.IsActive())
}

func TestOuterRollbackDiscardsInnerCommits(t *testing.T) {
	store, base := newTestStore(nil)
	s := store.NewSession()

	s.Begin()
	s.Set("a", "1")
	s.Begin()
	s.Set("b", "2")
	require.True(t, s.Commit())
	assertValue(t, s, "b", "2")

	// A nested level that is never closed explicitly.
	s.Begin()
	s.Set("c", "3")

	require.True(t, s.Rollback())
	require.True(t, s.Rollback())
	assert.False(t, s.IsActive())
	assert.Equal(t, 0, base.Len())
}

func TestInnerChangesInvisibleToBaseUntilOutermostCommit(t *testing.T) {
	store, base := newTestStore(nil)
	s := store.NewSession()

	s.Begin()
	s.Set("a", "1")
	s.Begin()
	s.Set("b", "2")
	require.True(t, s.Commit())
	assert.Equal(t, 0, base.Len())

	require.True(t, s.Commit())
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, storage.Snapshot(base))
}

func TestNestedCommitKeepsTombstone(t *testing.T) {
	store, base := newTestStore(map[string]string{"k": "1"})
	s := store.NewSession()

	s.Begin()
	s.Set("other", "x")
	s.Begin()
	s.Delete("k")
	require.True(t, s.Commit())
	// The tombstone now lives in the outer transaction and still hides the base value.
	assertNotSet(t, s, "k")
	_, ok := base.Get("k")
	assert.True(t, ok)

	require.True(t, s.Commit())
	_, ok = base.Get("k")
	assert.False(t, ok)
	assertValue(t, s, "other", "x")
}

func TestNestedCommitOverwritesParent(t *testing.T) {
	store, _ := newTestStore(nil)
	s := store.NewSession()

	s.Begin()
	s.Delete("k")
	s.Begin()
	s.Set("k", "2")
	require.True(t, s.Commit())
	assertValue(t, s, "k", "2")
	require.True(t, s.Commit())
	assertValue(t, s, "k", "2")
}

func TestEmptyBeginIsReused(t *testing.T) {
	store, _ := newTestStore(nil)
	s := store.NewSession()

	s.Begin()
	s.Begin()
	s.Begin()
	assert.Equal(t, 1, s.Depth())

	s.Set("a", "1")
	s.Begin()
	assert.Equal(t, 2, s.Depth())
	s.Begin()
	assert.Equal(t, 2, s.Depth())

	require.True(t, s.Rollback())
	require.True(t, s.Rollback())
	assert.False(t, s.Rollback())
}

func TestCommitAppliesInRecordedOrder(t *testing.T) {
	store, _ := newTestStore(nil)
	s := store.NewSession()

	s.Begin()
	s.Set("b", "1")
	s.Set("a", "1")
	s.Delete("b")
	s.Set("c", "1")

	top := store.stacks[s.ID()].top()
	batch := top.modifies()
	require.Len(t, batch, 3)
	assert.Equal(t, storage.Delete{Key: "b"}, batch[0].Data)
	assert.Equal(t, storage.Put{Key: "a", Value: "1"}, batch[1].Data)
	assert.Equal(t, storage.Put{Key: "c", Value: "1"}, batch[2].Data)
}

func TestEnumerate(t *testing.T) {
	store, base := newTestStore(map[string]string{"k": "0", "j": "0", "i": "0"})
	s := store.NewSession()

	assert.Equal(t, map[string]string{"k": "0", "j": "0", "i": "0"}, s.Enumerate())

	s.Begin()
	s.Set("k", "1")
	s.Delete("i")
	s.Begin()
	s.Set("k", "2")
	s.Delete("j")
	s.Set("new", "3")

	assert.Equal(t, map[string]string{"k": "2", "new": "3"}, s.Enumerate())
	assert.Equal(t, []string{"k", "new"}, s.Keys())
	assert.Equal(t, 2, s.Len())

	// The base store is untouched.
	assert.Equal(t, map[string]string{"k": "0", "j": "0", "i": "0"}, storage.Snapshot(base))

	// Mutating the result does not leak anywhere.
	snap := s.Enumerate()
	snap["x"] = "y"
	assertNotSet(t, s, "x")
}

func TestEnumerateWithoutTransactionIsACopy(t *testing.T) {
	store, base := newTestStore(map[string]string{"k": "0"})
	s := store.NewSession()

	snap := s.Enumerate()
	delete(snap, "k")
	snap["x"] = "1"
	assert.Equal(t, map[string]string{"k": "0"}, storage.Snapshot(base))
}

func TestCount(t *testing.T) {
	store, _ := newTestStore(nil)
	s := store.NewSession()

	s.Set("foo", "123")
	s.Set("bar", "456")
	s.Set("baz", "123")
	assert.Equal(t, 2, s.Count("123"))
	assert.Equal(t, 1, s.Count("456"))
	assert.Equal(t, 0, s.Count("789"))
}
