package di

import (
	"database/sql"
	"fmt"
	"log"

	"cocoscan/internal/adapters/inbound/http/controllers"
	httpRouter "cocoscan/internal/adapters/inbound/http/router"
	callbackhttp "cocoscan/internal/adapters/outbound/callback/http"
	"cocoscan/internal/adapters/outbound/coloredasset/colu"
	"cocoscan/internal/adapters/outbound/docs"
	postgresqlassetcatalog "cocoscan/internal/adapters/outbound/persistence/postgresql/assetcatalog"
	postgresqlbootstrap "cocoscan/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlshared "cocoscan/internal/adapters/outbound/persistence/postgresql/shared"
	postgresqlwalletaccount "cocoscan/internal/adapters/outbound/persistence/postgresql/walletaccount"
	"cocoscan/internal/adapters/outbound/wallet/bip32"
	portsin "cocoscan/internal/application/ports/in"
	"cocoscan/internal/application/use_cases"
	"cocoscan/internal/infrastructure/config"
	"cocoscan/internal/infrastructure/discovery"
	"cocoscan/internal/infrastructure/httpserver"
	"cocoscan/internal/infrastructure/keyvault"
	"cocoscan/internal/infrastructure/metrics"
)

type Container struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	DiscoveryRunner              *discovery.Runner
	Metrics                      *metrics.Recorder
}

func Build(cfg config.Config, logger *log.Logger) (Container, error) {
	vault, err := keyvault.New(cfg.AccountKeyEncryptionSecret)
	if err != nil {
		return Container{}, fmt.Errorf("build key vault: %w", err)
	}

	databasePool, err := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, postgresqlshared.DefaultPoolSettings(), logger)
	if err != nil {
		return Container{}, err
	}

	recorder := metrics.NewRecorder()
	keyParser := bip32.NewKeyParser(cfg.BitcoinNetwork.Params())

	persistenceGateway := postgresqlbootstrap.NewGateway(
		cfg.DatabaseURL,
		cfg.DatabaseTarget,
		cfg.MigrationsPath,
		cfg.ColoredAssetCatalog,
		logger,
	)
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)

	assetCatalogReadModel := postgresqlassetcatalog.NewReadModel(databasePool)
	walletAccountRepository := postgresqlwalletaccount.NewRepository(databasePool, vault, logger)
	coloredAssetGateway := colu.NewGateway(colu.Config{
		BaseURL:             cfg.Colu.BaseURL,
		HTTPTimeout:         cfg.Colu.HTTPTimeout,
		RequestsPerSecond:   cfg.Colu.RequestsPerSecond,
		BreakerMinRequests:  cfg.Colu.BreakerMinRequests,
		BreakerFailureRatio: cfg.Colu.BreakerFailureRatio,
		BreakerOpenTimeout:  cfg.Colu.BreakerOpenTimeout,
	}, assetCatalogReadModel, recorder, logger)

	discoverUseCase := use_cases.NewDiscoverColoredAccountsUseCase(
		walletAccountRepository,
		coloredAssetGateway,
		walletAccountRepository,
	)
	if cfg.Discovery.CallbackHMACSecret == "" && logger != nil {
		logger.Printf("discovery callback secret missing callbacks=rejected")
	}
	notifier := callbackhttp.NewNotifier(callbackhttp.Config{
		HMACSecret: cfg.Discovery.CallbackHMACSecret,
		Timeout:    cfg.Discovery.CallbackTimeout,
	})
	discoveryRunner := discovery.NewRunner(discovery.Config{
		MaxConcurrentJobs: cfg.Discovery.MaxConcurrentJobs,
		JobRetention:      cfg.Discovery.JobRetention,
		CallbackTimeout:   cfg.Discovery.CallbackTimeout,
	}, discoverUseCase, notifier, recorder, logger)

	healthUseCase := use_cases.NewGetHealthUseCase(cfg.BitcoinNetwork, discoveryRunner)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath))
	listColoredAssetsUseCase := use_cases.NewListColoredAssetsUseCase(assetCatalogReadModel)
	importHDNodeUseCase := use_cases.NewImportHDNodeUseCase(keyParser, walletAccountRepository, discoveryRunner)
	importPrivateKeyUseCase := use_cases.NewImportPrivateKeyUseCase(
		keyParser,
		walletAccountRepository,
		coloredAssetGateway,
		assetCatalogReadModel,
	)
	importAddressUseCase := use_cases.NewImportAddressUseCase(
		cfg.BitcoinNetwork,
		walletAccountRepository,
		coloredAssetGateway,
		assetCatalogReadModel,
	)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:        controllers.NewHealthController(healthUseCase, logger),
		SwaggerController:       controllers.NewSwaggerController(openAPIUseCase, logger),
		ColoredAssetsController: controllers.NewColoredAssetsController(listColoredAssetsUseCase, logger),
		ImportsController: controllers.NewImportsController(
			importHDNodeUseCase,
			importPrivateKeyUseCase,
			importAddressUseCase,
			logger,
		),
		DiscoveriesController: controllers.NewDiscoveriesController(
			use_cases.NewGetDiscoveryJobUseCase(discoveryRunner),
			use_cases.NewCancelDiscoveryJobUseCase(discoveryRunner),
			use_cases.NewRetryDiscoveryJobUseCase(discoveryRunner),
			logger,
		),
		MetricsHandler: recorder.Handler(),
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return Container{
		Database:                     databasePool,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		DiscoveryRunner:              discoveryRunner,
		Metrics:                      recorder,
	}, nil
}
