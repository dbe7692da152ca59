package transaction

import "github.com/pingcap/errors"

// ErrNoTransaction is the error form of Commit or Rollback returning false: the session has no active
// transaction.
var ErrNoTransaction = errors.New("no transaction")
