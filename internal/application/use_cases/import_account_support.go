package use_cases

import (
	"context"
	"strings"

	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/domain/entities"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

// accountSelection is the account shape chosen for an imported address.
type accountSelection struct {
	kind  valueobjects.AccountKind
	asset *entities.ColoredAssetDefinition
}

func accountExistsError(account entities.WalletAccount) *apperrors.AppError {
	return apperrors.NewConflict(
		"account_already_exists",
		"an account for this address already exists",
		map[string]any{
			"account_id": account.ID,
			"kind":       account.Kind.String(),
			"label":      account.Label(),
		},
	)
}

// selectFromHoldings picks the first recognized asset. ok is false when the
// address holds none.
func selectFromHoldings(holdings []entities.ColoredAssetHolding, readOnly bool) (accountSelection, bool) {
	if len(holdings) == 0 {
		return accountSelection{}, false
	}

	asset := holdings[0].Asset
	kind := valueobjects.AccountKindColored
	if readOnly {
		kind = valueobjects.AccountKindColoredReadOnly
	}
	return accountSelection{kind: kind, asset: &asset}, true
}

// selectExplicit resolves a caller supplied asset type: "BTC" selects a plain
// single-address account, any other value must name a colored type present
// in the enabled catalog. An empty selection yields asset_selection_required
// listing the choices.
func selectExplicit(
	ctx context.Context,
	catalog portsout.ColoredAssetCatalogReadModel,
	rawAssetType string,
	readOnly bool,
	lookupFailed bool,
) (accountSelection, *apperrors.AppError) {
	selection := strings.TrimSpace(rawAssetType)
	if strings.EqualFold(selection, valueobjects.BitcoinAssetSelection) {
		kind := valueobjects.AccountKindSingleAddress
		if readOnly {
			kind = valueobjects.AccountKindSingleAddressReadOnly
		}
		return accountSelection{kind: kind}, nil
	}

	if catalog == nil {
		return accountSelection{}, apperrors.NewInternal(
			"colored_asset_catalog_read_model_missing",
			"colored asset catalog read model is required",
			nil,
		)
	}
	definitions, appErr := catalog.ListEnabled(ctx)
	if appErr != nil {
		return accountSelection{}, appErr
	}

	if selection == "" {
		return accountSelection{}, apperrors.NewValidation(
			"asset_selection_required",
			"no colored asset was recognized at this address; choose an asset type",
			map[string]any{
				"selectable":    selectableAssetTypes(definitions),
				"lookup_failed": lookupFailed,
			},
		)
	}

	assetType, appErr := valueobjects.ParseColoredAssetType(selection)
	if appErr != nil {
		appErr.Details["selectable"] = selectableAssetTypes(definitions)
		return accountSelection{}, appErr
	}
	for _, definition := range definitions {
		if definition.Type == assetType {
			asset := definition
			kind := valueobjects.AccountKindColored
			if readOnly {
				kind = valueobjects.AccountKindColoredReadOnly
			}
			return accountSelection{kind: kind, asset: &asset}, nil
		}
	}

	return accountSelection{}, apperrors.NewValidation(
		"colored_asset_type_unavailable",
		"no enabled catalog asset has the selected type",
		map[string]any{
			"asset_type": assetType.String(),
			"selectable": selectableAssetTypes(definitions),
		},
	)
}

func selectableAssetTypes(definitions []entities.ColoredAssetDefinition) []string {
	selectable := []string{valueobjects.BitcoinAssetSelection}
	seen := map[valueobjects.ColoredAssetType]struct{}{}
	for _, knownType := range valueobjects.ColoredAssetTypes() {
		for _, definition := range definitions {
			if definition.Type != knownType {
				continue
			}
			if _, ok := seen[knownType]; !ok {
				seen[knownType] = struct{}{}
				selectable = append(selectable, knownType.String())
			}
		}
	}
	return selectable
}

func holdingViews(holdings []entities.ColoredAssetHolding) []dto.ColoredAssetHoldingView {
	if len(holdings) == 0 {
		return nil
	}

	views := make([]dto.ColoredAssetHoldingView, 0, len(holdings))
	for _, holding := range holdings {
		views = append(views, dto.ColoredAssetHoldingView{
			AssetID: holding.Asset.AssetID,
			Type:    holding.Asset.Type.String(),
			Name:    holding.Asset.Name,
			Amount:  holding.Amount,
		})
	}
	return views
}
