package transaction

import (
	"github.com/pingcap-incubator/nestkv/kv/storage"
)

// entry is either a pending value or a pending tombstone.
type entry struct {
	value   string
	deleted bool
}

// txnContext holds the pending writes of one level of nesting. Entries keep the order in which their keys
// were first recorded. parent is a lookup link only; the session's stack owns every context.
type txnContext struct {
	parent  *txnContext
	keys    []string
	entries map[string]entry
}

func newTxnContext(parent *txnContext) *txnContext {
	return &txnContext{
		parent:  parent,
		entries: make(map[string]entry),
	}
}

func (c *txnContext) put(key string, e entry) {
	if _, ok := c.entries[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = e
}

func (c *txnContext) lookup(key string) (entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *txnContext) empty() bool {
	return len(c.keys) == 0
}

func (c *txnContext) forEach(fn func(key string, e entry)) {
	for _, key := range c.keys {
		fn(key, c.entries[key])
	}
}

// mergeInto folds c into parent. Each of c's entries replaces whatever parent recorded for the same key,
// tombstones included.
func (c *txnContext) mergeInto(parent *txnContext) {
	c.forEach(func(key string, e entry) {
		parent.put(key, e)
	})
}

// modifies lowers c into a batch for the base store.
func (c *txnContext) modifies() []storage.Modify {
	batch := make([]storage.Modify, 0, len(c.keys))
	c.forEach(func(key string, e entry) {
		if e.deleted {
			batch = append(batch, storage.Modify{Data: storage.Delete{Key: key}})
		} else {
			batch = append(batch, storage.Modify{Data: storage.Put{Key: key, Value: e.value}})
		}
	})
	return batch
}

// txnStack is a session's chain of contexts, outermost first.
type txnStack []*txnContext

func (s txnStack) top() *txnContext {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}
