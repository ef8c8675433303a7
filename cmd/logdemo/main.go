// Command logdemo initializes a logging pipeline and emits one record at every
// level, which makes it handy for checking LOG_* settings and collector
// connectivity.
//
// # Usage
//
//	logdemo [flags]
//
// Options come from flags, then from the YAML file given with --config, then
// from LOG_* environment variables:
//
//	LOG_DESTINATION=cs LOG_SERVER=graylog:12201 logdemo --log-level=debug
//	logdemo --config logging.yaml --log-filter='info,worker=trace'
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/loginit"
	"go.jacobcolvin.com/logkit/version"
)

// ErrReadConfig indicates the --config file could not be read.
var ErrReadConfig = errors.New("read config file")

func main() {
	cfg := loginit.Builder("logdemo")

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "logdemo [flags]",
		Short: "Initialize logging and emit a sample record at every level",
		Long: `logdemo builds a logging pipeline from flags, an optional YAML file, and
LOG_* environment variables, installs it, and writes a sample record at every
level to each enabled sink.`,
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg, configPath)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML logging config file")
	cfg.RegisterFlags(rootCmd.Flags())

	completionErr := cfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *loginit.Config, configPath string) error {
	if configPath != "" {
		data, err := os.ReadFile(configPath) //nolint:gosec // Config path from CLI flag is expected.
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadConfig, err)
		}

		err = cfg.LoadYAML(data)
		if err != nil {
			return err
		}
	}

	backend, err := cfg.Init(ctx)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	logger := slog.Default().With(slog.String("version", version.Version))
	logger.Info("logging initialized", slog.String("config", cfg.String()))

	worker := logger.With(slog.String("component", "worker"))
	worker.Log(ctx, log.SlogLevelTrace, "polling queue", slog.Int("depth", 0))
	worker.Debug("job picked up", slog.String("job", "reindex"))
	worker.Info("job finished", slog.Duration("took", 0))
	logger.Warn("disk space low", slog.Int("free_pct", 9))
	logger.Error("upstream unavailable", slog.Any("err", errors.New("connection refused")))

	return backend.Close()
}
