package colu

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/domain/entities"
	apperrors "cocoscan/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	defaultHTTPTimeout         = 10 * time.Second
	defaultRequestsPerSecond   = 10
	defaultBreakerMinRequests  = 20
	defaultBreakerFailureRatio = 0.6
	defaultBreakerOpenTimeout  = 30 * time.Second
)

type Config struct {
	BaseURL             string
	HTTPTimeout         time.Duration
	RequestsPerSecond   int
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

type FailureRecorder interface {
	ObserveAssetLookupFailure(reason string)
}

// Gateway answers which catalog assets an address holds by querying a Colu
// colored coins explorer.
type Gateway struct {
	client   *addressInfoClient
	limiter  ratelimit.Limiter
	breaker  *gobreaker.CircuitBreaker
	catalog  portsout.ColoredAssetCatalogReadModel
	failures FailureRecorder
	logger   *log.Logger
}

var _ portsout.ColoredAssetLookupGateway = (*Gateway)(nil)

func NewGateway(
	cfg Config,
	catalog portsout.ColoredAssetCatalogReadModel,
	failures FailureRecorder,
	logger *log.Logger,
) *Gateway {
	httpTimeout := cfg.HTTPTimeout
	if httpTimeout <= 0 {
		httpTimeout = defaultHTTPTimeout
	}
	requestsPerSecond := cfg.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}

	gateway := &Gateway{
		client:   newAddressInfoClient(cfg.BaseURL, &http.Client{}, httpTimeout),
		limiter:  ratelimit.New(requestsPerSecond),
		catalog:  catalog,
		failures: failures,
		logger:   logger,
	}
	gateway.breaker = gateway.newCircuitBreaker(cfg)
	return gateway
}

func (g *Gateway) newCircuitBreaker(cfg Config) *gobreaker.CircuitBreaker {
	minRequests := cfg.BreakerMinRequests
	if minRequests == 0 {
		minRequests = defaultBreakerMinRequests
	}
	failureRatio := cfg.BreakerFailureRatio
	if failureRatio <= 0 || failureRatio > 1 {
		failureRatio = defaultBreakerFailureRatio
	}
	openTimeout := cfg.BreakerOpenTimeout
	if openTimeout <= 0 {
		openTimeout = defaultBreakerOpenTimeout
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "colu_explorer",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logf("colored asset explorer breaker name=%s from=%s to=%s", name, from.String(), to.String())
		},
	})
}

func (g *Gateway) LookupAssets(ctx context.Context, address string) ([]entities.ColoredAssetHolding, *apperrors.AppError) {
	if g.catalog == nil {
		return nil, apperrors.NewInternal(
			"colored_asset_catalog_read_model_missing",
			"colored asset catalog read model is required",
			nil,
		)
	}
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidation(
			"invalid_request",
			"address is required",
			map[string]any{"field": "address"},
		)
	}

	definitions, appErr := g.catalog.ListEnabled(ctx)
	if appErr != nil {
		return nil, appErr
	}
	if len(definitions) == 0 {
		return nil, nil
	}

	g.limiter.Take()
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.client.fetch(ctx, trimmed)
	})
	if err != nil {
		return nil, g.lookupFailed(trimmed, err)
	}

	return recognizedHoldings(trimmed, result.(addressInfo), definitions), nil
}

func (g *Gateway) lookupFailed(address string, err error) *apperrors.AppError {
	reason := "request_failed"
	code := "colored_asset_lookup_failed"
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		reason = "breaker_open"
		code = "colored_asset_lookup_unavailable"
	}
	details := map[string]any{"address": address, "error": err.Error()}

	var statusErr *unexpectedStatusError
	if errors.As(err, &statusErr) {
		reason = "unexpected_status"
		details["status_code"] = statusErr.statusCode
	}

	if g.failures != nil {
		g.failures.ObserveAssetLookupFailure(reason)
	}
	g.logf("colored asset lookup failed address=%s reason=%s error=%v", address, reason, err)

	return apperrors.NewInternal(code, "colored asset lookup failed", details)
}

// recognizedHoldings keeps catalog assets only and sums amounts per asset id
// in order of first appearance.
func recognizedHoldings(
	address string,
	info addressInfo,
	definitions []entities.ColoredAssetDefinition,
) []entities.ColoredAssetHolding {
	catalog := make(map[string]entities.ColoredAssetDefinition, len(definitions))
	for _, definition := range definitions {
		if definition.Enabled {
			catalog[definition.AssetID] = definition
		}
	}

	order := make([]string, 0)
	totals := map[string]decimal.Decimal{}
	for _, utxo := range info.UTXOs {
		for _, asset := range utxo.Assets {
			definition, known := catalog[asset.AssetID]
			if !known {
				continue
			}
			amount := decimal.New(asset.Amount, -definition.Divisibility)
			if current, seen := totals[asset.AssetID]; seen {
				totals[asset.AssetID] = current.Add(amount)
				continue
			}
			order = append(order, asset.AssetID)
			totals[asset.AssetID] = amount
		}
	}

	holdings := make([]entities.ColoredAssetHolding, 0, len(order))
	for _, assetID := range order {
		holdings = append(holdings, entities.ColoredAssetHolding{
			Asset:   catalog[assetID],
			Address: address,
			Amount:  totals[assetID],
		})
	}
	return holdings
}

func (g *Gateway) logf(format string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, args...)
}
