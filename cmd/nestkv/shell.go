package main

import (
	"github.com/pingcap-incubator/nestkv/kv/shell"
	"github.com/spf13/cobra"
)

var assumeYes bool

func newShellCommand() *cobra.Command {
	m := &cobra.Command{
		Use:   "shell",
		Short: "Interactive command shell",
		Long: `Interactive command shell. Commands:
  SET key value   GET key   DELETE key   COUNT value
  BEGIN           COMMIT    ROLLBACK     exit`,
		Args: cobra.NoArgs,
		RunE: runShellCommandFunc,
	}
	m.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	return m
}

func runShellCommandFunc(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	if assumeYes {
		conf.Shell.Confirm = false
	}

	store, cleanup, err := setup(conf)
	if err != nil {
		return err
	}
	defer cleanup()

	sh, err := shell.New(store, &conf.Shell)
	if err != nil {
		return err
	}
	defer sh.Close()

	go func() {
		<-globalContext.Done()
		sh.Close()
	}()
	sh.Run()
	return nil
}
