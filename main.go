// Command bitflow runs a simulated Bitcoin paper-trading sandbox: a
// synthetic price feed, an interactive trade console, a web dashboard
// and optional AI market commentary.
//
// Usage:
//
//	bitflow setup            interactive wizard, writes config.yaml
//	bitflow --config config.yaml
//	bitflow                  (uses CLI arguments)
//
// Optional environment variables:
//
//	BITFLOW_LLM_API_KEY      key for the advisory model API
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/bitflow/config"
	"github.com/vadiminshakov/bitflow/internal"
	"github.com/vadiminshakov/bitflow/internal/clients"
	"github.com/vadiminshakov/bitflow/internal/console"
	"github.com/vadiminshakov/bitflow/internal/services/advisor"
	"github.com/vadiminshakov/bitflow/internal/services/executor"
	"github.com/vadiminshakov/bitflow/internal/services/wallet"
	"github.com/vadiminshakov/bitflow/internal/setup"
	"github.com/vadiminshakov/bitflow/internal/storage/advisories"
	"github.com/vadiminshakov/bitflow/internal/storage/tradelog"
	"github.com/vadiminshakov/bitflow/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const setupConfigPath = "config.yaml"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(setupConfigPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	conf, err := config.Get()
	if err != nil {
		logger.Fatal("failed to get configuration", zap.Error(err))
	}

	tradeLog, err := tradelog.NewWALStore(conf.TradeWALDir)
	if err != nil {
		logger.Fatal("failed to init trade log", zap.Error(err))
	}
	defer tradeLog.Close()

	advisoryStore, err := advisories.NewWALStore(conf.AdvisoryWALDir)
	if err != nil {
		logger.Fatal("failed to init advisory store", zap.Error(err))
	}
	defer advisoryStore.Close()

	gateway := buildGateway(conf, logger)

	w := wallet.NewWallet(conf.InitialUsd, conf.InitialBtc, logger)
	exec := executor.New(logger, tradeLog)
	adv := advisor.NewAdvisor(gateway, advisoryStore, logger)
	session := internal.NewSession(conf, w, exec, adv, logger)
	server := web.NewServer(conf.WebAddr, session, tradeLog, advisoryStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("dashboard listening", zap.String("addr", conf.WebAddr))
		return server.Start(ctx)
	})
	g.Go(func() error {
		// console exit shuts the whole session down
		defer stop()
		return console.New(session, os.Stdin, os.Stdout).Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(err.Error())
	}
}

func buildGateway(conf config.Config, logger *zap.Logger) *advisor.Gateway {
	if conf.LLMAPIURL == "" || conf.LLMAPIKey == "" || conf.LLMModel == "" {
		logger.Info("advisory model not configured, static commentary only")
		return advisor.NewGateway(nil, logger)
	}
	client := clients.NewOpenAICompatibleClient(conf.LLMAPIURL, conf.LLMAPIKey, conf.LLMModel)
	return advisor.NewGateway(client, logger)
}
