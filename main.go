package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/proxyforge/proxyforge/common"
	"github.com/proxyforge/proxyforge/config"
	"github.com/proxyforge/proxyforge/executor"
	"github.com/proxyforge/proxyforge/logger"
	"github.com/proxyforge/proxyforge/pipeline/bootstrap"
	"github.com/proxyforge/proxyforge/runtime"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagLogLevel string
	flagLogDir   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   common.AppName,
		Short: "Bootstrap a self-hosted proxy service deployment",
		Long: `proxyforge provisions a self-hosted proxy service in the current directory:
it fetches and patches the compose descriptor and service config, acquires a
reusable session credential through the companion session-broker repository,
and verifies the environment is ready to run.

Behavior is determined by environment bindings (` + common.EnvAccountEmail + `,
` + common.EnvAccountPassword + `, ` + common.EnvAuthBlob + `); flags only tune logging.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBootstrap,
	}

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Optional YAML config overriding the built-in deployment defaults")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "Directory for rotated log files (console logging if empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if err := logger.InitGlobalLogger(flagLogDir, flagVerbose, level); err != nil {
		return err
	}

	cfg, err := config.NewLoader(flagConfig).Load()
	if err != nil {
		return err
	}

	rt, err := runtime.NewRuntime(runtime.Config{
		BootstrapConfig: cfg,
		Executor:        executor.NewLocalExecutor(),
		Verbose:         flagVerbose,
	})
	if err != nil {
		return err
	}

	log := logger.Log.WithFields(logrus.Fields{
		common.LogFieldApp:   common.AppName,
		common.LogFieldRunID: rt.RunID(),
	})
	log.Infof("Starting bootstrap in %s (host arch %s).", rt.BaseDir(), rt.HostArch())

	// An interruption signal triggers the same cleanup the pipeline performs
	// on its own exit paths before the process terminates.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warnf("Received signal %s, cleaning up before exit.", sig)
		bootstrap.Cleanup(rt, log)
		os.Exit(1)
	}()

	p := bootstrap.NewBootstrapPipeline(rt, log)
	res := p.Run(rt, log.WithField(common.LogFieldPipeline, p.Name()))
	if res.IsFailed() {
		if combined := res.CombinedError(); combined != nil {
			log.Errorf("Bootstrap failed: %v", combined)
		}
		return fmt.Errorf("bootstrap did not complete: %s", res.Message)
	}

	log.Info(res.Message)
	fmt.Println("Setup complete. Start the service with: docker compose up -d")
	return nil
}
