package config

import (
	"encoding/hex"
	"encoding/json"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"cocoscan/internal/domain/entities"
	valueobjects "cocoscan/internal/domain/value_objects"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "internal/adapters/outbound/persistence/postgresql/migrations"
	defaultBitcoinNetwork           = "mainnet"
	defaultColuAPIBaseURL           = "https://explorer.coloredcoins.org/api"
	defaultColuHTTPTimeout          = 10 * time.Second
	defaultColuRequestsPerSecond    = 10
	defaultColuBreakerMinRequests   = 5
	defaultColuBreakerFailureRatio  = 0.6
	defaultColuBreakerOpenTimeout   = 30 * time.Second
	defaultDiscoveryMaxJobs         = 2
	defaultDiscoveryJobRetention    = time.Hour
	defaultDiscoveryCallbackTimeout = 5 * time.Second
)

const coloredAssetCatalogEnv = "COLORED_ASSET_CATALOG_JSON"
const accountKeyEncryptionSecretEnv = "ACCOUNT_KEY_ENCRYPTION_SECRET"

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type ColuConfig struct {
	BaseURL             string
	HTTPTimeout         time.Duration
	RequestsPerSecond   int
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

type DiscoveryConfig struct {
	MaxConcurrentJobs  int
	JobRetention       time.Duration
	CallbackHMACSecret string
	CallbackTimeout    time.Duration
}

type Config struct {
	Port                       string
	OpenAPISpecPath            string
	ShutdownTimeout            time.Duration
	DatabaseURL                string
	DatabaseTarget             string
	DBReadinessTimeout         time.Duration
	DBReadinessRetryInterval   time.Duration
	MigrationsPath             string
	BitcoinNetwork             valueobjects.BitcoinNetwork
	Colu                       ColuConfig
	ColoredAssetCatalog        []entities.ColoredAssetDefinition
	AccountKeyEncryptionSecret string
	Discovery                  DiscoveryConfig
}

func LoadConfig() (Config, *ConfigError) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_DATABASE_URL_REQUIRED",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, parseErr := parseDatabaseTarget(databaseURL)
	if parseErr != nil {
		return Config{}, parseErr
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	openAPISpecPath := os.Getenv("OPENAPI_SPEC_PATH")
	if openAPISpecPath == "" {
		openAPISpecPath = defaultOpenAPISpec
	}

	rawNetwork := strings.TrimSpace(os.Getenv("BITCOIN_NETWORK"))
	if rawNetwork == "" {
		rawNetwork = defaultBitcoinNetwork
	}
	network, appErr := valueobjects.ParseBitcoinNetwork(rawNetwork)
	if appErr != nil {
		return Config{}, &ConfigError{
			Code:     "CONFIG_BITCOIN_NETWORK_INVALID",
			Message:  "BITCOIN_NETWORK must be mainnet, testnet or regtest",
			Metadata: map[string]string{"value": rawNetwork},
		}
	}

	colu, coluErr := loadColuConfig()
	if coluErr != nil {
		return Config{}, coluErr
	}

	catalog, catalogErr := ParseColoredAssetCatalog(strings.TrimSpace(os.Getenv(coloredAssetCatalogEnv)))
	if catalogErr != nil {
		return Config{}, catalogErr
	}

	encryptionSecret := strings.TrimSpace(os.Getenv(accountKeyEncryptionSecretEnv))
	if encryptionSecret == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_ACCOUNT_KEY_ENCRYPTION_SECRET_REQUIRED",
			Message: accountKeyEncryptionSecretEnv + " is required",
		}
	}
	if decoded, err := hex.DecodeString(encryptionSecret); err != nil || len(decoded) != 32 {
		return Config{}, &ConfigError{
			Code:    "CONFIG_ACCOUNT_KEY_ENCRYPTION_SECRET_INVALID",
			Message: accountKeyEncryptionSecretEnv + " must be 64 hex characters",
		}
	}

	discovery, discoveryErr := loadDiscoveryConfig()
	if discoveryErr != nil {
		return Config{}, discoveryErr
	}

	return Config{
		Port:                       port,
		OpenAPISpecPath:            openAPISpecPath,
		ShutdownTimeout:            defaultShutdownTimeout,
		DatabaseURL:                databaseURL,
		DatabaseTarget:             databaseTarget,
		DBReadinessTimeout:         defaultDBReadinessTimeout,
		DBReadinessRetryInterval:   defaultDBReadinessRetryInterval,
		MigrationsPath:             defaultMigrationsPath,
		BitcoinNetwork:             network,
		Colu:                       colu,
		ColoredAssetCatalog:        catalog,
		AccountKeyEncryptionSecret: encryptionSecret,
		Discovery:                  discovery,
	}, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}

func loadColuConfig() (ColuConfig, *ConfigError) {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("COLU_API_BASE_URL")), "/")
	if baseURL == "" {
		baseURL = defaultColuAPIBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ColuConfig{}, &ConfigError{
			Code:     "CONFIG_COLU_API_BASE_URL_INVALID",
			Message:  "COLU_API_BASE_URL must be an absolute http or https URL",
			Metadata: map[string]string{"value": baseURL},
		}
	}

	timeout, cfgErr := durationEnv("COLU_HTTP_TIMEOUT", defaultColuHTTPTimeout)
	if cfgErr != nil {
		return ColuConfig{}, cfgErr
	}
	requestsPerSecond, cfgErr := positiveIntEnv("COLU_REQUESTS_PER_SECOND", defaultColuRequestsPerSecond)
	if cfgErr != nil {
		return ColuConfig{}, cfgErr
	}

	return ColuConfig{
		BaseURL:             baseURL,
		HTTPTimeout:         timeout,
		RequestsPerSecond:   requestsPerSecond,
		BreakerMinRequests:  defaultColuBreakerMinRequests,
		BreakerFailureRatio: defaultColuBreakerFailureRatio,
		BreakerOpenTimeout:  defaultColuBreakerOpenTimeout,
	}, nil
}

func loadDiscoveryConfig() (DiscoveryConfig, *ConfigError) {
	maxJobs, cfgErr := positiveIntEnv("DISCOVERY_MAX_CONCURRENT_JOBS", defaultDiscoveryMaxJobs)
	if cfgErr != nil {
		return DiscoveryConfig{}, cfgErr
	}
	retention, cfgErr := durationEnv("DISCOVERY_JOB_RETENTION", defaultDiscoveryJobRetention)
	if cfgErr != nil {
		return DiscoveryConfig{}, cfgErr
	}
	callbackTimeout, cfgErr := durationEnv("DISCOVERY_CALLBACK_TIMEOUT", defaultDiscoveryCallbackTimeout)
	if cfgErr != nil {
		return DiscoveryConfig{}, cfgErr
	}

	return DiscoveryConfig{
		MaxConcurrentJobs:  maxJobs,
		JobRetention:       retention,
		CallbackHMACSecret: strings.TrimSpace(os.Getenv("DISCOVERY_CALLBACK_HMAC_SECRET")),
		CallbackTimeout:    callbackTimeout,
	}, nil
}

type coloredAssetEnvelope struct {
	AssetID      string `json:"asset_id"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Divisibility int32  `json:"divisibility"`
	Enabled      *bool  `json:"enabled"`
}

// ParseColoredAssetCatalog reads a JSON array of catalog entries. Entries
// default to enabled and asset ids must be unique.
func ParseColoredAssetCatalog(raw string) ([]entities.ColoredAssetDefinition, *ConfigError) {
	if raw == "" {
		return []entities.ColoredAssetDefinition{}, nil
	}

	envelopes := []coloredAssetEnvelope{}
	if err := json.Unmarshal([]byte(raw), &envelopes); err != nil {
		return nil, &ConfigError{
			Code:    "CONFIG_COLORED_ASSET_CATALOG_INVALID",
			Message: coloredAssetCatalogEnv + " must be a JSON array of asset objects",
		}
	}

	catalog := make([]entities.ColoredAssetDefinition, 0, len(envelopes))
	seen := map[string]struct{}{}
	for index, envelope := range envelopes {
		enabled := true
		if envelope.Enabled != nil {
			enabled = *envelope.Enabled
		}

		definition, appErr := entities.NewColoredAssetDefinition(
			envelope.AssetID,
			envelope.Type,
			envelope.Name,
			envelope.Divisibility,
			enabled,
		)
		if appErr != nil {
			return nil, &ConfigError{
				Code:    "CONFIG_COLORED_ASSET_CATALOG_INVALID",
				Message: coloredAssetCatalogEnv + " contains an invalid asset entry",
				Metadata: map[string]string{
					"index":  strconv.Itoa(index),
					"reason": appErr.Code,
				},
			}
		}
		if _, exists := seen[definition.AssetID]; exists {
			return nil, &ConfigError{
				Code:    "CONFIG_COLORED_ASSET_CATALOG_INVALID",
				Message: coloredAssetCatalogEnv + " defines an asset id twice",
				Metadata: map[string]string{
					"asset_id": definition.AssetID,
				},
			}
		}
		seen[definition.AssetID] = struct{}{}
		catalog = append(catalog, definition)
	}

	return catalog, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "CONFIG_DURATION_INVALID",
			Message:  name + " must be a positive duration",
			Metadata: map[string]string{"env": name, "value": raw},
		}
	}
	return parsed, nil
}

func positiveIntEnv(name string, fallback int) (int, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "CONFIG_INTEGER_INVALID",
			Message:  name + " must be a positive integer",
			Metadata: map[string]string{"env": name, "value": raw},
		}
	}
	return parsed, nil
}
