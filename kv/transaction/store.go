package transaction

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pingcap-incubator/nestkv/kv/storage"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// SessionID identifies the owner of a transaction stack.
type SessionID string

// Store is the transactional layer over a base store. It is safe for concurrent use; see the package
// documentation for the locking rules.
type Store struct {
	mu   sync.RWMutex
	base storage.Storage
	// stacks only holds sessions with at least one open context.
	stacks map[SessionID]txnStack
}

// NewStore wraps base. From then on base must only be written through the Store.
func NewStore(base storage.Storage) *Store {
	return &Store{
		base:   base,
		stacks: make(map[SessionID]txnStack),
	}
}

// Session returns a handle for the session with the given id. Handles with the same id share one
// transaction stack.
func (s *Store) Session(id SessionID) *Session {
	return &Session{id: id, store: s}
}

// NewSession returns a handle for a session with a fresh random id.
func (s *Store) NewSession() *Session {
	return s.Session(SessionID(uuid.New().String()))
}

// CloseSession discards every open context of the session. Nothing reaches the base store.
func (s *Store) CloseSession(id SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stack, ok := s.stacks[id]
	if !ok {
		return
	}
	log.Warn("closing session with open transactions",
		zap.String("session", string(id)),
		zap.Int("depth", len(stack)))
	delete(s.stacks, id)
	sessionGauge.Dec()
}

// ActiveSessions returns the number of sessions with an open transaction.
func (s *Store) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stacks)
}

// The methods below must be called with s.mu held.

func (s *Store) innermost(id SessionID) *txnContext {
	return s.stacks[id].top()
}

func (s *Store) pop(id SessionID) {
	stack := s.stacks[id]
	stack[len(stack)-1] = nil
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(s.stacks, id)
		sessionGauge.Dec()
		return
	}
	s.stacks[id] = stack
}

func (s *Store) beginLocked(id SessionID) *txnContext {
	stack := s.stacks[id]
	top := stack.top()
	if top != nil && top.empty() {
		txnCounter.WithLabelValues("begin", "reused").Inc()
		log.Debug("reuse empty transaction",
			zap.String("session", string(id)),
			zap.Int("depth", len(stack)))
		return top
	}

	c := newTxnContext(top)
	if len(stack) == 0 {
		sessionGauge.Inc()
	}
	stack = append(stack, c)
	s.stacks[id] = stack

	txnCounter.WithLabelValues("begin", "new").Inc()
	txnDepthHistogram.Observe(float64(len(stack)))
	log.Debug("begin transaction",
		zap.String("session", string(id)),
		zap.Int("depth", len(stack)))
	return c
}

func (s *Store) commitLocked(id SessionID) bool {
	depth := len(s.stacks[id])
	top := s.innermost(id)
	if top == nil {
		txnCounter.WithLabelValues("commit", "no_transaction").Inc()
		return false
	}
	s.pop(id)

	if top.parent != nil {
		top.mergeInto(top.parent)
		txnCounter.WithLabelValues("commit", "nested").Inc()
	} else {
		storage.Write(s.base, top.modifies())
		txnCounter.WithLabelValues("commit", "outermost").Inc()
	}
	log.Debug("commit transaction",
		zap.String("session", string(id)),
		zap.Int("depth", depth),
		zap.Int("entries", len(top.keys)))
	return true
}

func (s *Store) rollbackLocked(id SessionID) bool {
	depth := len(s.stacks[id])
	top := s.innermost(id)
	if top == nil {
		txnCounter.WithLabelValues("rollback", "no_transaction").Inc()
		return false
	}
	s.pop(id)

	txnCounter.WithLabelValues("rollback", "ok").Inc()
	log.Debug("rollback transaction",
		zap.String("session", string(id)),
		zap.Int("depth", depth),
		zap.Int("entries", len(top.keys)))
	return true
}

func (s *Store) set(id SessionID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if top := s.innermost(id); top != nil {
		top.put(key, entry{value: value})
		return
	}
	s.base.Set(key, value)
}

func (s *Store) get(id SessionID, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := s.innermost(id); c != nil; c = c.parent {
		if e, ok := c.lookup(key); ok {
			if e.deleted {
				return "", false
			}
			return e.value, true
		}
	}
	return s.base.Get(key)
}

func (s *Store) delete(id SessionID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if top := s.innermost(id); top != nil {
		top.put(key, entry{deleted: true})
		return
	}
	s.base.Delete(key)
}

func (s *Store) enumerate(id SessionID) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := storage.Snapshot(s.base)
	// Outermost first, so that inner levels win.
	for _, c := range s.stacks[id] {
		c.forEach(func(key string, e entry) {
			if e.deleted {
				delete(data, key)
			} else {
				data[key] = e.value
			}
		})
	}
	return data
}

func (s *Store) depth(id SessionID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stacks[id])
}

func (s *Store) begin(id SessionID) *txnContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked(id)
}

func (s *Store) commit(id SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(id)
}

func (s *Store) rollback(id SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbackLocked(id)
}

// commitIf commits only while c is still the session's innermost context.
func (s *Store) commitIf(id SessionID, c *txnContext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.innermost(id) != c {
		return false
	}
	return s.commitLocked(id)
}

// rollbackIf rolls back only while c is still the session's innermost context.
func (s *Store) rollbackIf(id SessionID, c *txnContext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.innermost(id) != c {
		return false
	}
	return s.rollbackLocked(id)
}
