package entities

import (
	"strings"

	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

const maxAssetDivisibility = 18

type ColoredAssetDefinition struct {
	AssetID      string
	Type         valueobjects.ColoredAssetType
	Name         string
	Divisibility int32
	Enabled      bool
}

func NewColoredAssetDefinition(assetID, assetType, name string, divisibility int32, enabled bool) (ColoredAssetDefinition, *apperrors.AppError) {
	trimmedID := strings.TrimSpace(assetID)
	if trimmedID == "" {
		return ColoredAssetDefinition{}, apperrors.NewValidation(
			"colored_asset_id_required",
			"colored asset id is required",
			nil,
		)
	}

	parsedType, appErr := valueobjects.ParseColoredAssetType(assetType)
	if appErr != nil {
		return ColoredAssetDefinition{}, appErr
	}

	if divisibility < 0 || divisibility > maxAssetDivisibility {
		return ColoredAssetDefinition{}, apperrors.NewValidation(
			"colored_asset_divisibility_invalid",
			"colored asset divisibility is out of range",
			map[string]any{"asset_id": trimmedID, "divisibility": divisibility},
		)
	}

	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		trimmedName = parsedType.String()
	}

	return ColoredAssetDefinition{
		AssetID:      trimmedID,
		Type:         parsedType,
		Name:         trimmedName,
		Divisibility: divisibility,
		Enabled:      enabled,
	}, nil
}

// ColoredAssetHolding is a recognized asset balance found at one address.
type ColoredAssetHolding struct {
	Asset   ColoredAssetDefinition
	Address string
	Amount  decimal.Decimal
}

// HoldingFromUnits scales a raw unit count by the asset divisibility.
func HoldingFromUnits(asset ColoredAssetDefinition, address string, units int64) ColoredAssetHolding {
	return ColoredAssetHolding{
		Asset:   asset,
		Address: address,
		Amount:  decimal.New(units, -asset.Divisibility),
	}
}
