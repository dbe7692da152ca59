package main

import (
	"fmt"

	"github.com/pingcap-incubator/nestkv/kv/bench"
	"github.com/spf13/cobra"
)

var (
	benchWorkers    int
	benchIterations int
	benchKeys       int
)

func newBenchCommand() *cobra.Command {
	m := &cobra.Command{
		Use:   "bench",
		Short: "Run concurrent scoped transactions and verify the committed result",
		Args:  cobra.NoArgs,
		RunE:  runBenchCommandFunc,
	}
	m.Flags().IntVar(&benchWorkers, "workers", 0, "number of concurrent sessions")
	m.Flags().IntVar(&benchIterations, "iterations", 0, "scoped transactions per session")
	m.Flags().IntVar(&benchKeys, "keys", 0, "keys per session")
	return m
}

func runBenchCommandFunc(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	if benchWorkers > 0 {
		conf.Bench.Workers = benchWorkers
	}
	if benchIterations > 0 {
		conf.Bench.Iterations = benchIterations
	}
	if benchKeys > 0 {
		conf.Bench.Keys = benchKeys
	}

	store, cleanup, err := setup(conf)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := bench.Run(globalContext, store, &conf.Bench)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
