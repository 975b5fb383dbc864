package valueobjects

import (
	"strings"

	apperrors "cocoscan/internal/shared_kernel/errors"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

type BitcoinNetwork string

const (
	BitcoinNetworkMainnet BitcoinNetwork = "mainnet"
	BitcoinNetworkTestnet BitcoinNetwork = "testnet"
	BitcoinNetworkRegtest BitcoinNetwork = "regtest"
)

func ParseBitcoinNetwork(raw string) (BitcoinNetwork, *apperrors.AppError) {
	switch BitcoinNetwork(strings.ToLower(strings.TrimSpace(raw))) {
	case BitcoinNetworkMainnet:
		return BitcoinNetworkMainnet, nil
	case BitcoinNetworkTestnet:
		return BitcoinNetworkTestnet, nil
	case BitcoinNetworkRegtest:
		return BitcoinNetworkRegtest, nil
	default:
		return "", apperrors.NewValidation(
			"unsupported_network",
			"bitcoin network is not supported",
			map[string]any{"network": raw},
		)
	}
}

func (n BitcoinNetwork) Params() *chaincfg.Params {
	switch n {
	case BitcoinNetworkTestnet:
		return &chaincfg.TestNet3Params
	case BitcoinNetworkRegtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

func (n BitcoinNetwork) String() string {
	return string(n)
}

// NormalizeAddressForStorage decodes a bitcoin address for the given network
// and returns its canonical encoding. Bech32 addresses come back lowercase.
func NormalizeAddressForStorage(network BitcoinNetwork, address string) (string, *apperrors.AppError) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", apperrors.NewValidation(
			"invalid_request",
			"address is required",
			map[string]any{"field": "address"},
		)
	}

	params := network.Params()
	if lower := strings.ToLower(trimmed); strings.HasPrefix(lower, params.Bech32HRPSegwit+"1") {
		trimmed = lower
	}

	decoded, err := btcutil.DecodeAddress(trimmed, params)
	if err != nil {
		return "", apperrors.NewValidation(
			"invalid_request",
			"bitcoin address is invalid",
			map[string]any{"field": "address", "network": network.String()},
		)
	}
	if !decoded.IsForNet(params) {
		return "", apperrors.NewValidation(
			"invalid_request",
			"bitcoin address belongs to another network",
			map[string]any{"field": "address", "network": network.String()},
		)
	}

	return decoded.EncodeAddress(), nil
}
