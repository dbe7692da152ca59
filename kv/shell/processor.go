package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

const (
	CmdSet      = "SET"
	CmdGet      = "GET"
	CmdDelete   = "DELETE"
	CmdCount    = "COUNT"
	CmdBegin    = "BEGIN"
	CmdCommit   = "COMMIT"
	CmdRollback = "ROLLBACK"
)

const (
	RespKeyNotSet         = "key not set"
	RespNoTransaction     = "no transaction"
	RespDeleteCancelled   = "Delete operation cancelled"
	RespCommitCancelled   = "Commit operation cancelled"
	RespRollbackCancelled = "Rollback operation cancelled"
)

// Processor executes text commands against one session.
type Processor struct {
	session   *transaction.Session
	confirmer Confirmer
}

func NewProcessor(session *transaction.Session, confirmer Confirmer) *Processor {
	return &Processor{
		session:   session,
		confirmer: confirmer,
	}
}

// Process runs a single command line and returns what should be shown to the user. The boolean is false when the
// command has nothing to show. Malformed commands are reported in the output and leave the store untouched.
func (p *Processor) Process(line string) (string, bool) {
	output, ok, err := p.process(line)
	if err != nil {
		if IsUsageError(err) {
			log.Debug("malformed command", zap.String("line", line), zap.Error(err))
		} else {
			log.Warn("process command failed", zap.String("line", line), zap.Error(err))
		}
		return fmt.Sprintf("Error processing operation: %s", err.Error()), true
	}
	return output, ok
}

func (p *Processor) process(line string) (string, bool, error) {
	args, err := shellwords.Parse(strings.TrimSpace(line))
	if err != nil {
		return "", false, newUsageError("malformed command: %s", err.Error())
	}
	if len(args) == 0 {
		return "", false, newUsageError("empty command")
	}
	verb := strings.ToUpper(args[0])
	args = args[1:]

	switch verb {
	case CmdSet:
		if err := checkArity(verb, args, 2); err != nil {
			return "", false, err
		}
		p.session.Set(args[0], args[1])

	case CmdGet:
		if err := checkArity(verb, args, 1); err != nil {
			return "", false, err
		}
		if value, ok := p.session.Get(args[0]); ok {
			return value, true, nil
		}
		return RespKeyNotSet, true, nil

	case CmdDelete:
		if err := checkArity(verb, args, 1); err != nil {
			return "", false, err
		}
		if !p.confirmer.Confirm("Are you sure you want to delete?") {
			return RespDeleteCancelled, true, nil
		}
		p.session.Delete(args[0])

	case CmdCount:
		if err := checkArity(verb, args, 1); err != nil {
			return "", false, err
		}
		return strconv.Itoa(p.session.Count(args[0])), true, nil

	case CmdBegin:
		if err := checkArity(verb, args, 0); err != nil {
			return "", false, err
		}
		p.session.Begin()

	case CmdCommit:
		if err := checkArity(verb, args, 0); err != nil {
			return "", false, err
		}
		if !p.confirmer.Confirm("Are you sure you want to commit?") {
			return RespCommitCancelled, true, nil
		}
		if !p.session.Commit() {
			return RespNoTransaction, true, nil
		}

	case CmdRollback:
		if err := checkArity(verb, args, 0); err != nil {
			return "", false, err
		}
		if !p.confirmer.Confirm("Are you sure you want to rollback?") {
			return RespRollbackCancelled, true, nil
		}
		if !p.session.Rollback() {
			return RespNoTransaction, true, nil
		}

	default:
		return "", false, newUsageError("unknown command %q", verb)
	}
	return "", false, nil
}

func checkArity(verb string, args []string, n int) error {
	if len(args) == n {
		return nil
	}
	noun := "arguments"
	if n == 1 {
		noun = "argument"
	}
	return newUsageError("%s command must have %d %s", verb, n, noun)
}
