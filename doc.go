package nestkv

/*
NestKV is an in-memory key/value store with nested transactions, intended for teaching and experimentation. It is not
suitable for production use: nothing is persisted and all data is lost when the process exits.

Every caller works through a session. A session owns a stack of open transactions; writes go to the innermost
transaction and only reach the shared store when the outermost transaction commits. Sessions never see each other's
uncommitted writes.

Building NestKV produces one executable, nestkv, with two subcommands: `shell` runs the interactive command line and
`bench` runs many concurrent sessions against one store and checks the result.

The `nestkv` module is organized into the following packages:

* `kv/storage`: the committed key/value map and the batch (`Modify`) type used to apply a commit to it.
* `kv/transaction`: sessions, transaction stacks, commit and rollback, and scoped transactions.
* `kv/shell`: command parsing, confirmation prompts and the read-eval-print loop.
* `kv/status`: an optional HTTP server exposing status, committed data and Prometheus metrics.
* `kv/bench`: the concurrent workload used by `nestkv bench`.
* `kv/config`: configuration loaded from TOML, and logger setup.
* `cmd/nestkv`: the executable.
*/
