package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pingcap-incubator/nestkv/kv/config"
	"github.com/pingcap-incubator/nestkv/kv/status"
	"github.com/pingcap-incubator/nestkv/kv/storage"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	logFile    string
	statusAddr string

	globalContext context.Context
	globalCancel  context.CancelFunc
)

func loadConfig() (*config.Config, error) {
	conf := config.NewDefaultConfig()
	if configPath != "" {
		var err error
		if conf, err = config.LoadFile(configPath); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		conf.Log.Level = logLevel
	}
	if logFile != "" {
		conf.Log.File.Filename = logFile
	}
	if statusAddr != "" {
		conf.StatusAddr = statusAddr
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	if err := conf.SetupLogger(); err != nil {
		return nil, errors.Annotate(err, "initialize logger")
	}
	log.ReplaceGlobals(conf.GetZapLogger(), conf.GetZapLogProperties())
	return conf, nil
}

// setup builds the store and, if configured, the status server. The returned function releases both.
func setup(conf *config.Config) (*transaction.Store, func(), error) {
	base := storage.Synchronized(storage.NewMemStorageWithData(conf.Storage.InitialData))
	store := transaction.NewStore(base)
	if conf.StatusAddr == "" {
		return store, func() {}, nil
	}

	srv, err := status.Start(conf.StatusAddr, store, base)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(ctx); err != nil {
			log.Warn("close status server failed", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func handleSignal() {
	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		sig := <-sc
		log.Info("Got signal to exit", zap.String("signal", sig.String()))
		globalCancel()
	}()
}

func main() {
	globalContext, globalCancel = context.WithCancel(context.Background())
	handleSignal()

	rootCmd := &cobra.Command{
		Use:           "nestkv",
		Short:         "In-memory key/value store with nested transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "L", "", "log level: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().StringVar(&statusAddr, "status-addr", "", "status server address, e.g. 127.0.0.1:9300")

	rootCmd.AddCommand(
		newShellCommand(),
		newBenchCommand(),
	)

	err := rootCmd.Execute()
	globalCancel()
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.ErrorStack(err))
		os.Exit(1)
	}
}
