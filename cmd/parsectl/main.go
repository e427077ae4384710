// Command parsectl replays a recorded batch of confirmed transactions
// through the compressed-account parser outside of any live indexer. It
// never opens an RPC connection or a database: fetching blocks and
// persisting StateUpdates stay interfaces only (compressedtx.TransactionSource,
// compressedtx.StateUpdateSink).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cmdconfig "github.com/synnergy-network/compressed-indexer/cmd/config"
	"github.com/synnergy-network/compressed-indexer/compressedtx"
	"github.com/synnergy-network/compressed-indexer/parserserver"
	pkgconfig "github.com/synnergy-network/compressed-indexer/pkg/config"
	"github.com/synnergy-network/compressed-indexer/pkg/utils"
)

func main() {
	_ = godotenv.Load(".env")

	var (
		env           string
		loggingFormat string
		slot          uint64
		serveMetrics  bool
	)

	root := &cobra.Command{
		Use:   "parsectl",
		Short: "Replay recorded transaction batches through the compressed-account parser",
	}
	root.PersistentFlags().StringVar(&env, "env", "", "configuration environment to load (cmd/config/<env>.yaml)")
	root.PersistentFlags().StringVar(&loggingFormat, "logging-format", "standard", "log output format: standard or json")

	replay := &cobra.Command{
		Use:   "replay <batch.json>",
		Short: "Parse every transaction in a recorded batch file and print its StateUpdate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], env, loggingFormat, slot, serveMetrics)
		},
	}
	replay.Flags().Uint64Var(&slot, "slot", 0, "slot to attribute to records in the batch that carry no slot of their own")
	replay.Flags().BoolVar(&serveMetrics, "serve-metrics", false, "serve /healthz and /metrics for the duration of the replay")

	root.AddCommand(replay)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, path, env, loggingFormat string, slot uint64, serveMetrics bool) error {
	cmdconfig.LoadConfig(env)
	cfg := &cmdconfig.AppConfig

	lg := newLogger(loggingFormat, cfg)

	records, err := loadBatch(path)
	if err != nil {
		return err
	}
	lg.WithField("count", len(records)).Info("parsectl: loaded batch")

	metrics := parserserver.NewMetrics()
	if serveMetrics {
		srv := parserserver.New(cfg.Indexer.MetricsAddr, metrics, lg)
		srv.Start()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				lg.WithError(err).Warn("parsectl: metrics server shutdown")
			}
		}()
	}

	ids, err := programIDsFromConfig(cfg)
	if err != nil {
		return err
	}

	parser := compressedtx.NewParserWithProgramIDs(lg, ids)
	runBatch(parser, metrics, records, slot, func(r replayResult) {
		printResult(lg, r)
	})

	fmt.Fprintf(cmd.OutOrStdout(), "parsectl: replayed %d transactions\n", len(records))
	return nil
}

// programIDsFromConfig starts from the compiled-in program IDs and applies
// any chain-section overrides from the loaded configuration. An override
// that is not a valid base58 32-byte key aborts the run rather than silently
// scanning against the wrong program.
func programIDsFromConfig(cfg *pkgconfig.Config) (compressedtx.ProgramIDs, error) {
	ids := compressedtx.DefaultProgramIDs()
	if s := cfg.Chain.AccountCompressionProgramID; s != "" {
		pk, err := compressedtx.ParsePubkey(s)
		if err != nil {
			return compressedtx.ProgramIDs{}, utils.Wrap(err, "chain.account_compression_program_id")
		}
		ids.AccountCompression = pk
	}
	if s := cfg.Chain.NoopProgramID; s != "" {
		pk, err := compressedtx.ParsePubkey(s)
		if err != nil {
			return compressedtx.ProgramIDs{}, utils.Wrap(err, "chain.noop_program_id")
		}
		ids.Noop = pk
	}
	return ids, nil
}

// newLogger builds a logrus.Logger honoring the format flag and cfg.Logging.
func newLogger(format string, cfg *pkgconfig.Config) *logrus.Logger {
	lg := logrus.New()
	if format == "json" {
		lg.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		lg.SetLevel(level)
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			lg.SetOutput(f)
		} else {
			lg.WithError(err).Warn("parsectl: could not open log file, using stderr")
		}
	}
	return lg
}
