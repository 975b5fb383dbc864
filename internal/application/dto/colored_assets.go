package dto

import "github.com/shopspring/decimal"

type ListColoredAssetsQuery struct{}

type ListColoredAssetsOutput struct {
	Assets []ColoredAssetView `json:"assets"`
}

type ColoredAssetView struct {
	AssetID      string `json:"asset_id"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Divisibility int32  `json:"divisibility"`
}

type ColoredAssetHoldingView struct {
	AssetID string          `json:"asset_id"`
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
}
