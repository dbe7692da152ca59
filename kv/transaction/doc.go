package transaction

// The transaction package implements nestkv's transactional layer. It wraps a base store (defined by Storage in
// kv/storage) and gives every session its own stack of nested transactions. Reads and writes are routed through
// that stack before they reach the base store.
//
// A *session* is the explicit caller identity. It is not tied to a goroutine: callers obtain a Session from the
// Store (by id, or a fresh random one) and pass it around. One session's pending work is never visible to another
// session.
//
// Each level of nesting is a *context*: an insertion-ordered map from key to either a pending value or a pending
// tombstone. A tombstone means "deleted at this level", which is different from "not mentioned at this level".
// A lookup walks the contexts from innermost to outermost and the first one which mentions the key decides the
// result. Only when no context mentions the key does the lookup fall through to the base store.
//
// Committing the innermost context folds its entries into its parent. Only committing the outermost context
// writes to the base store: its entries are lowered into a batch of storage.Modify and applied in the order
// they were first recorded. Rolling back just discards the innermost context. Since an inner commit only
// reaches its immediate parent, rolling back an outer context also discards every inner change committed into
// it.
//
// ## Locking
//
// A Store has a single reader-writer lock. Set, Delete, Begin, Commit and Rollback take the writer lock; Get and
// Enumerate take the reader lock. The session table lives under the same lock. RunInScope does not hold the
// lock while its body runs, it only takes it to open the scope and again to close it.
//
// ## Empty nested transactions
//
// Beginning a transaction while the innermost context has no entries does not push a new context; the existing
// one is reused. Nesting depth therefore only grows once something has been written. RunInScope inherits this,
// so a scope opened directly on top of an empty transaction shares that transaction's context and closes it.
