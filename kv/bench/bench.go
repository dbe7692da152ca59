package bench

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pingcap-incubator/nestkv/kv/config"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// errInjected aborts a scope on purpose.
var errInjected = errors.New("injected failure")

// Result summarizes a finished run.
type Result struct {
	Workers      int
	Transactions int64
	Committed    int64
	RolledBack   int64
	Keys         int
	Duration     time.Duration
}

func (r *Result) String() string {
	return fmt.Sprintf("workers=%d transactions=%d committed=%d rolled-back=%d keys=%d duration=%s",
		r.Workers, r.Transactions, r.Committed, r.RolledBack, r.Keys, r.Duration)
}

// Run drives the store with conf.Workers sessions in parallel. Every session runs conf.Iterations top-level
// transactions over its own key range. Most are scoped, some with a nested scope, and the rest use Begin
// and Commit directly. A random share of them fail or roll back on purpose. Each worker mirrors the changes it expects to survive, and once all workers are done the
// committed store is checked against those mirrors.
func Run(ctx context.Context, store *transaction.Store, conf *config.BenchConfig) (*Result, error) {
	var (
		txns       atomic.Int64
		committed  atomic.Int64
		rolledBack atomic.Int64
	)
	workers := make([]*worker, conf.Workers)
	for i := range workers {
		workers[i] = &worker{
			id:         i,
			keys:       conf.Keys,
			rnd:        rand.New(rand.NewSource(conf.Seed + int64(i))),
			expected:   make(map[string]string),
			txns:       &txns,
			committed:  &committed,
			rolledBack: &rolledBack,
		}
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			session := store.NewSession()
			defer session.Close()
			for i := 0; i < conf.Iterations; i++ {
				if err := ctx.Err(); err != nil {
					return errors.Trace(err)
				}
				if err := w.iteration(session); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Workers:      conf.Workers,
		Transactions: txns.Load(),
		Committed:    committed.Load(),
		RolledBack:   rolledBack.Load(),
		Duration:     time.Since(start),
	}

	snapshot := store.NewSession().Enumerate()
	for _, w := range workers {
		if err := w.verify(snapshot); err != nil {
			return nil, err
		}
		result.Keys += len(w.expected)
	}
	log.Info("bench finished", zap.Stringer("result", result))
	return result, nil
}

type worker struct {
	id   int
	keys int
	rnd  *rand.Rand
	// expected mirrors what this worker has committed to the base store.
	expected map[string]string

	txns       *atomic.Int64
	committed  *atomic.Int64
	rolledBack *atomic.Int64
}

func (w *worker) key(n int) string {
	return fmt.Sprintf("w%d-k%d", w.id, n)
}

func (w *worker) prefix() string {
	return fmt.Sprintf("w%d-", w.id)
}

// mutate applies one to three random writes to tx and to the mirror.
func (w *worker) mutate(tx *transaction.Session, mirror map[string]string) {
	ops := 1 + w.rnd.Intn(3)
	for i := 0; i < ops; i++ {
		key := w.key(w.rnd.Intn(w.keys))
		if w.rnd.Intn(4) == 0 {
			tx.Delete(key)
			delete(mirror, key)
			continue
		}
		value := fmt.Sprintf("%d", w.rnd.Int63())
		tx.Set(key, value)
		mirror[key] = value
	}
}

func (w *worker) iteration(session *transaction.Session) error {
	if w.rnd.Intn(5) == 0 {
		return w.explicitIteration(session)
	}

	pending := copyMap(w.expected)
	err := session.RunInScope(func(tx *transaction.Session) error {
		w.mutate(tx, pending)
		if w.rnd.Intn(2) == 0 {
			inner := copyMap(pending)
			err := tx.RunInScope(func(tx *transaction.Session) error {
				w.mutate(tx, inner)
				if w.rnd.Intn(4) == 0 {
					return errInjected
				}
				return nil
			})
			switch {
			case err == nil:
				pending = inner
			case errors.Cause(err) != errInjected:
				return err
			}
		}
		if w.rnd.Intn(4) == 0 {
			return errInjected
		}
		return nil
	})
	w.txns.Inc()

	switch {
	case err == nil:
		w.expected = pending
		w.committed.Inc()
	case errors.Cause(err) == errInjected:
		w.rolledBack.Inc()
	default:
		return errors.Trace(err)
	}
	return nil
}

// explicitIteration runs one transaction with Begin and Commit or Rollback instead of a scope.
func (w *worker) explicitIteration(session *transaction.Session) error {
	pending := copyMap(w.expected)
	session.Begin()
	w.mutate(session, pending)
	w.txns.Inc()

	if w.rnd.Intn(4) == 0 {
		if !session.Rollback() {
			return errors.Trace(transaction.ErrNoTransaction)
		}
		w.rolledBack.Inc()
		return nil
	}
	if !session.Commit() {
		return errors.Trace(transaction.ErrNoTransaction)
	}
	w.expected = pending
	w.committed.Inc()
	return nil
}

func (w *worker) verify(snapshot map[string]string) error {
	prefix := w.prefix()
	seen := 0
	for key, value := range snapshot {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		seen++
		if expected, ok := w.expected[key]; !ok || expected != value {
			return errors.Errorf("worker %d: key %s is %q, expected %q", w.id, key, value, expected)
		}
	}
	if seen != len(w.expected) {
		return errors.Errorf("worker %d: %d keys committed, expected %d", w.id, seen, len(w.expected))
	}
	return nil
}

func copyMap(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
