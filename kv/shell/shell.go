package shell

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/pingcap-incubator/nestkv/kv/config"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// lineReader is the part of *readline.Instance the shell needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Shell is an interactive command loop bound to one session of a store.
type Shell struct {
	session   *transaction.Session
	processor *Processor
	reader    lineReader
	out       io.Writer

	closeOnce sync.Once
	closeErr  error
}

// New creates a shell reading from the terminal. The shell owns a fresh session which is closed, discarding
// any open transaction, when the shell is closed.
func New(store *transaction.Store, conf *config.ShellConfig) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            conf.Prompt,
		HistoryFile:       conf.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "^D",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, errors.Annotate(err, "create line reader")
	}
	return newShell(store.NewSession(), rl, rl.Stdout(), conf), nil
}

func newShell(session *transaction.Session, reader lineReader, out io.Writer, conf *config.ShellConfig) *Shell {
	confirmer := AlwaysConfirm
	if conf.Confirm {
		confirmer = &promptConfirmer{reader: reader, prompt: conf.Prompt}
	}
	return &Shell{
		session:   session,
		processor: NewProcessor(session, confirmer),
		reader:    reader,
		out:       out,
	}
}

// Run reads and executes commands until exit, EOF, interrupt or a read error.
func (sh *Shell) Run() {
	log.Info("shell started", zap.String("session", string(sh.session.ID())))
	for {
		line, err := sh.reader.Readline()
		if err != nil {
			if err != readline.ErrInterrupt && err != io.EOF {
				log.Error("read line failed", zap.Error(err))
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return
		}
		if output, ok := sh.processor.Process(line); ok {
			fmt.Fprintln(sh.out, output)
		}
	}
}

// Close discards the session's open transactions and releases the terminal. It may be called more than once.
func (sh *Shell) Close() error {
	sh.closeOnce.Do(func() {
		sh.session.Close()
		sh.closeErr = sh.reader.Close()
	})
	return sh.closeErr
}
