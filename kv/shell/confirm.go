package shell

import (
	"strings"
)

// Confirmer asks the user to approve a destructive command.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}

// AlwaysConfirm approves everything without asking.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// promptConfirmer asks on the shell's own line reader. Only "y" (any case) approves.
type promptConfirmer struct {
	reader lineReader
	prompt string
}

func (c *promptConfirmer) Confirm(message string) bool {
	c.reader.SetPrompt(message + " y/n > ")
	defer c.reader.SetPrompt(c.prompt)

	line, err := c.reader.Readline()
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
