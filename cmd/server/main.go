package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cocoscan/internal/application/dto"
	"cocoscan/internal/infrastructure/config"
	"cocoscan/internal/infrastructure/di"

	"golang.org/x/sync/errgroup"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		logger.Printf("startup config error code=%s message=%s metadata=%v", cfgErr.Code, cfgErr.Message, cfgErr.Metadata)
		os.Exit(1)
	}
	logger.Printf(
		"discovery config bitcoin_network=%s colu_api_base_url=%s catalog_entries=%d max_concurrent_jobs=%d",
		cfg.BitcoinNetwork,
		cfg.Colu.BaseURL,
		len(cfg.ColoredAssetCatalog),
		cfg.Discovery.MaxConcurrentJobs,
	)

	container, buildErr := di.Build(cfg, logger)
	if buildErr != nil {
		logger.Printf("dependency wiring error: %v", buildErr)
		os.Exit(1)
	}
	defer func() {
		if container.Database == nil {
			return
		}
		if err := container.Database.Close(); err != nil {
			logger.Printf("database close warning error=%v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("persistence initialization starting database_target=%s", cfg.DatabaseTarget)
	persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
		ReadinessTimeout:       cfg.DBReadinessTimeout,
		ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
	})
	if persistenceErr != nil {
		logger.Printf(
			"persistence initialization failed code=%s message=%s metadata=%v",
			persistenceErr.Code,
			persistenceErr.Message,
			persistenceErr.Details,
		)
		os.Exit(1)
	}
	logger.Printf("persistence initialization completed database_target=%s", cfg.DatabaseTarget)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		container.DiscoveryRunner.Start(groupCtx)
		return nil
	})
	group.Go(container.Server.Start)
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return container.Server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Printf("server stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Printf("server stopped")
}
