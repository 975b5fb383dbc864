package valueobjects

import (
	"strings"

	apperrors "cocoscan/internal/shared_kernel/errors"
)

type ColoredAssetType string

const (
	ColoredAssetTypeMT   ColoredAssetType = "MT"
	ColoredAssetTypeMASS ColoredAssetType = "MASS"
	ColoredAssetTypeRMC  ColoredAssetType = "RMC"
)

// BitcoinAssetSelection is the selectable choice that imports an address as a
// plain bitcoin account instead of a colored one.
const BitcoinAssetSelection = "BTC"

func ColoredAssetTypes() []ColoredAssetType {
	return []ColoredAssetType{ColoredAssetTypeMT, ColoredAssetTypeMASS, ColoredAssetTypeRMC}
}

func ParseColoredAssetType(raw string) (ColoredAssetType, *apperrors.AppError) {
	normalized := ColoredAssetType(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range ColoredAssetTypes() {
		if normalized == known {
			return known, nil
		}
	}

	return "", apperrors.NewValidation(
		"colored_asset_type_invalid",
		"colored asset type is not supported",
		map[string]any{"asset_type": raw},
	)
}

func (t ColoredAssetType) String() string {
	return string(t)
}
