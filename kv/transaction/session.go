package transaction

import (
	"github.com/pingcap-incubator/nestkv/kv/storage"
)

// Session is a caller's view of a Store. All reads and writes go through the session's innermost open
// transaction, if any.
type Session struct {
	id    SessionID
	store *Store
}

func (s *Session) ID() SessionID {
	return s.id
}

// Set records key=value in the innermost transaction, or writes it to the base store when no transaction
// is open.
func (s *Session) Set(key, value string) {
	s.store.set(s.id, key, value)
}

// Get returns the value this session currently sees for key, and whether it is set.
func (s *Session) Get(key string) (string, bool) {
	return s.store.get(s.id, key)
}

// Delete records a tombstone for key in the innermost transaction, or deletes it from the base store when
// no transaction is open. Deleting an absent key is a no-op.
func (s *Session) Delete(key string) {
	s.store.delete(s.id, key)
}

// Enumerate returns everything this session currently sees: the base store with each open transaction
// applied on top, outermost first. The map is a copy.
func (s *Session) Enumerate() map[string]string {
	return s.store.enumerate(s.id)
}

// Count returns how many keys currently hold value.
func (s *Session) Count(value string) int {
	return storage.CountValues(s.Enumerate(), value)
}

// Keys returns the keys this session currently sees, sorted.
func (s *Session) Keys() []string {
	return storage.SortedKeys(s.Enumerate())
}

func (s *Session) Len() int {
	return len(s.Enumerate())
}

// Begin opens a nested transaction. If the innermost transaction is still empty it is reused instead.
func (s *Session) Begin() {
	s.store.begin(s.id)
}

// Commit closes the innermost transaction, folding its changes into the parent or, for the outermost
// one, writing them to the base store. It returns false if there is no open transaction.
func (s *Session) Commit() bool {
	return s.store.commit(s.id)
}

// Rollback discards the innermost transaction. It returns false if there is no open transaction.
func (s *Session) Rollback() bool {
	return s.store.rollback(s.id)
}

func (s *Session) IsActive() bool {
	return s.store.depth(s.id) > 0
}

// Depth returns the number of open transactions.
func (s *Session) Depth() int {
	return s.store.depth(s.id)
}

// Close discards all open transactions of the session.
func (s *Session) Close() {
	s.store.CloseSession(s.id)
}
