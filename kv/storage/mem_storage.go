package storage

import (
	"github.com/google/btree"
)

const memStorageDegree = 32

// MemStorage is an in-memory Storage backed by a B-tree, so Scan visits keys in ascending order.
// It is not safe for concurrent use on its own; wrap it with Synchronized if it is shared outside the
// transactional layer.
type MemStorage struct {
	data *btree.BTree
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		data: btree.New(memStorageDegree),
	}
}

// NewMemStorageWithData creates a MemStorage seeded with a copy of data.
func NewMemStorageWithData(data map[string]string) *MemStorage {
	ms := NewMemStorage()
	for k, v := range data {
		ms.Set(k, v)
	}
	return ms
}

func (ms *MemStorage) Set(key, value string) {
	ms.data.ReplaceOrInsert(memItem{key: key, value: value})
}

func (ms *MemStorage) Get(key string) (string, bool) {
	result := ms.data.Get(memItem{key: key})
	if result == nil {
		return "", false
	}
	return result.(memItem).value, true
}

func (ms *MemStorage) Delete(key string) {
	ms.data.Delete(memItem{key: key})
}

func (ms *MemStorage) Scan(fn func(key, value string) bool) {
	ms.data.Ascend(func(i btree.Item) bool {
		item := i.(memItem)
		return fn(item.key, item.value)
	})
}

func (ms *MemStorage) Len() int {
	return ms.data.Len()
}

type memItem struct {
	key   string
	value string
}

func (it memItem) Less(than btree.Item) bool {
	return it.key < than.(memItem).key
}
