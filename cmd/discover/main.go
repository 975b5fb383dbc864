package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cocoscan/internal/adapters/outbound/coloredasset/colu"
	postgresqlassetcatalog "cocoscan/internal/adapters/outbound/persistence/postgresql/assetcatalog"
	postgresqlshared "cocoscan/internal/adapters/outbound/persistence/postgresql/shared"
	postgresqlwalletaccount "cocoscan/internal/adapters/outbound/persistence/postgresql/walletaccount"
	"cocoscan/internal/adapters/outbound/wallet/bip32"
	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/application/use_cases"
	"cocoscan/internal/domain/entities"
	valueobjects "cocoscan/internal/domain/value_objects"
	"cocoscan/internal/infrastructure/config"
	"cocoscan/internal/infrastructure/keyvault"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitMisuse  = 2
)

type discoverInput struct {
	ExtendedKey       string
	Network           string
	ColuBaseURL       string
	RequestsPerSecond int
	CatalogJSON       string
	DatabaseURL       string
	EncryptionSecret  string
	Timeout           time.Duration
}

type discoverResult struct {
	OK              bool   `json:"ok"`
	Network         string `json:"network"`
	RootIdentifier  string `json:"root_identifier,omitempty"`
	Persisted       bool   `json:"persisted"`
	Scanned         int    `json:"scanned"`
	AccountsCreated int    `json:"accounts_created"`
	AccountsFailed  int    `json:"accounts_failed"`
	FirstAccountID  string `json:"first_account_id,omitempty"`
	Reason          string `json:"reason,omitempty"`
	ErrorCode       string `json:"error_code,omitempty"`
}

func main() {
	input := discoverInput{}
	flag.StringVar(&input.ExtendedKey, "extended-key", "", "BIP32 master private key (xprv/tprv) to scan")
	flag.StringVar(&input.Network, "network", "mainnet", "bitcoin network (mainnet|testnet|regtest)")
	flag.StringVar(&input.ColuBaseURL, "colu-api-base-url", envOrDefault("COLU_API_BASE_URL", "https://explorer.coloredcoins.org/api"), "colored coins explorer base url")
	flag.IntVar(&input.RequestsPerSecond, "requests-per-second", 10, "explorer request rate limit")
	flag.StringVar(&input.CatalogJSON, "catalog-json", os.Getenv("COLORED_ASSET_CATALOG_JSON"), "colored asset catalog used without a database")
	flag.StringVar(&input.DatabaseURL, "database-url", "", "store discovered accounts in this database; empty runs a dry scan")
	flag.DurationVar(&input.Timeout, "timeout", 10*time.Minute, "overall scan timeout")
	flag.Parse()
	input.EncryptionSecret = os.Getenv("ACCOUNT_KEY_ENCRYPTION_SECRET")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags|log.LUTC)
	result, exitCode := runDiscovery(ctx, input, logger)
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"ok\":false,\"reason\":\"failed to encode result\",\"error_code\":\"result_encode_failed\"}\n")
		os.Exit(exitMisuse)
	}

	fmt.Println(string(encoded))
	os.Exit(exitCode)
}

func runDiscovery(ctx context.Context, input discoverInput, logger *log.Logger) (discoverResult, int) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	result := discoverResult{Network: strings.ToLower(strings.TrimSpace(input.Network))}

	extendedKey := strings.TrimSpace(input.ExtendedKey)
	if extendedKey == "" {
		return failed(result, "invalid_input", "missing required flag: extended-key"), exitMisuse
	}

	network, appErr := valueobjects.ParseBitcoinNetwork(input.Network)
	if appErr != nil {
		return failed(result, appErr.Code, appErr.Message), exitMisuse
	}

	root, appErr := bip32.NewKeyParser(network.Params()).ParseExtendedKey(extendedKey)
	if appErr != nil {
		return failed(result, appErr.Code, appErr.Message), exitMisuse
	}
	if root.Depth() != 0 || !root.IsPrivate() {
		return failed(result, "master_private_key_required", "extended-key must be a master private key (depth 0)"), exitMisuse
	}
	result.RootIdentifier = root.Identifier()

	store, cleanup, appErr := buildAccountStore(input, logger)
	if appErr != nil {
		return failed(result, appErr.Code, appErr.Message), exitMisuse
	}
	defer cleanup()
	result.Persisted = store.persisted

	gateway := colu.NewGateway(colu.Config{
		BaseURL:           input.ColuBaseURL,
		RequestsPerSecond: input.RequestsPerSecond,
	}, store.catalog, nil, logger)

	scanCtx := ctx
	if input.Timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, input.Timeout)
		defer cancel()
	}

	useCase := use_cases.NewDiscoverColoredAccountsUseCase(store.lookup, gateway, store.materializer)
	output, appErr := useCase.Execute(scanCtx, root, progressLogger{logger: logger})
	result.Scanned = output.Scanned
	result.AccountsCreated = output.AccountsCreated
	result.AccountsFailed = output.AccountsFailed
	if output.AccountsFailed > 0 {
		logger.Printf("discovery accounts failed count=%d", output.AccountsFailed)
	}
	result.FirstAccountID = output.FirstAccountID
	if appErr != nil {
		return failed(result, appErr.Code, appErr.Message), exitFailure
	}

	result.OK = true
	return result, exitOK
}

type accountStore struct {
	lookup       portsout.WalletAccountLookup
	materializer portsout.ColoredAccountMaterializer
	catalog      portsout.ColoredAssetCatalogReadModel
	persisted    bool
}

func buildAccountStore(input discoverInput, logger *log.Logger) (accountStore, func(), *apperrors.AppError) {
	noop := func() {}

	databaseURL := strings.TrimSpace(input.DatabaseURL)
	if databaseURL == "" {
		catalog, cfgErr := config.ParseColoredAssetCatalog(strings.TrimSpace(input.CatalogJSON))
		if cfgErr != nil {
			return accountStore{}, noop, apperrors.NewValidation("invalid_catalog", cfgErr.Message, nil)
		}
		memory := newMemoryAccounts()
		return accountStore{
			lookup:       memory,
			materializer: memory,
			catalog:      staticCatalog{definitions: catalog},
		}, noop, nil
	}

	vault, err := keyvault.New(input.EncryptionSecret)
	if err != nil {
		return accountStore{}, noop, apperrors.NewValidation(
			"invalid_encryption_secret",
			"ACCOUNT_KEY_ENCRYPTION_SECRET must be 64 hex characters when database-url is set",
			nil,
		)
	}
	db, err := postgresqlshared.NewDatabasePool(databaseURL, postgresqlshared.DefaultPoolSettings(), logger)
	if err != nil {
		return accountStore{}, noop, apperrors.NewValidation("invalid_database_url", err.Error(), nil)
	}

	repository := postgresqlwalletaccount.NewRepository(db, vault, logger)
	return accountStore{
		lookup:       repository,
		materializer: repository,
		catalog:      postgresqlassetcatalog.NewReadModel(db),
		persisted:    true,
	}, func() { _ = db.Close() }, nil
}

func failed(result discoverResult, code string, reason string) discoverResult {
	result.OK = false
	result.ErrorCode = code
	result.Reason = reason
	return result
}

func envOrDefault(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

type progressLogger struct {
	logger *log.Logger
}

func (p progressLogger) OnDiscoveryProgress(scanned int) {
	p.logger.Printf("discovery progress scanned=%d", scanned)
}

type staticCatalog struct {
	definitions []entities.ColoredAssetDefinition
}

func (c staticCatalog) ListEnabled(context.Context) ([]entities.ColoredAssetDefinition, *apperrors.AppError) {
	enabled := make([]entities.ColoredAssetDefinition, 0, len(c.definitions))
	for _, definition := range c.definitions {
		if definition.Enabled {
			enabled = append(enabled, definition)
		}
	}
	return enabled, nil
}

// memoryAccounts backs a dry scan. Accounts it creates vanish on exit.
type memoryAccounts struct {
	mu        sync.Mutex
	byAddress map[string]string
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byAddress: map[string]string{}}
}

func (m *memoryAccounts) FindAccountIDByAddress(_ context.Context, address string) (string, bool, *apperrors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, exists := m.byAddress[address]
	return id, exists, nil
}

func (m *memoryAccounts) EnableAsset(_ context.Context, command dto.MaterializeColoredAccountCommand) (dto.MaterializedColoredAccount, *apperrors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, exists := m.byAddress[command.Address]; exists {
		return dto.MaterializedColoredAccount{AccountID: id}, nil
	}
	id := fmt.Sprintf("dry_%d", len(m.byAddress)+1)
	m.byAddress[command.Address] = id
	return dto.MaterializedColoredAccount{AccountID: id, Created: true}, nil
}
