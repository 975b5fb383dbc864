package use_cases

import (
	"context"
	"strings"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type importAddressUseCase struct {
	network    valueobjects.BitcoinNetwork
	repository portsout.WalletAccountRepository
	assets     portsout.ColoredAssetLookupGateway
	catalog    portsout.ColoredAssetCatalogReadModel
}

func NewImportAddressUseCase(
	network valueobjects.BitcoinNetwork,
	repository portsout.WalletAccountRepository,
	assets portsout.ColoredAssetLookupGateway,
	catalog portsout.ColoredAssetCatalogReadModel,
) portsin.ImportAddressUseCase {
	return &importAddressUseCase{
		network:    network,
		repository: repository,
		assets:     assets,
		catalog:    catalog,
	}
}

func (u *importAddressUseCase) Execute(
	ctx context.Context,
	command dto.ImportAddressCommand,
) (dto.ImportAccountOutput, *apperrors.AppError) {
	if u.repository == nil || u.assets == nil {
		return dto.ImportAccountOutput{}, apperrors.NewInternal(
			"import_address_dependencies_missing",
			"account repository and asset lookup are required",
			nil,
		)
	}

	address, appErr := valueobjects.NormalizeAddressForStorage(u.network, command.Address)
	if appErr != nil {
		return dto.ImportAccountOutput{}, appErr
	}

	addressType := strings.ToLower(strings.TrimSpace(command.AddressType))
	if addressType == "" {
		addressType = dto.AddressTypeUnknown
	}
	switch addressType {
	case dto.AddressTypeUnknown, dto.AddressTypeSingleAddress, dto.AddressTypeColu:
	default:
		return dto.ImportAccountOutput{}, apperrors.NewValidation(
			"address_type_invalid",
			"address_type must be one of unknown, sa, colu",
			map[string]any{"field": "address_type", "address_type": command.AddressType},
		)
	}

	existing, found, appErr := u.repository.FindByAddress(ctx, address)
	if appErr != nil {
		return dto.ImportAccountOutput{}, appErr
	}
	if found {
		return dto.ImportAccountOutput{}, accountExistsError(existing)
	}

	var (
		selection accountSelection
		holdings  []dto.ColoredAssetHoldingView
	)
	switch addressType {
	case dto.AddressTypeSingleAddress:
		selection = accountSelection{kind: valueobjects.AccountKindSingleAddressReadOnly}
	case dto.AddressTypeColu:
		assetHoldings, lookupErr := u.assets.LookupAssets(ctx, address)
		if lookupErr != nil {
			return dto.ImportAccountOutput{}, lookupErr
		}
		var ok bool
		if selection, ok = selectFromHoldings(assetHoldings, true); !ok {
			return dto.ImportAccountOutput{}, apperrors.NewNotFound(
				"colored_asset_not_found",
				"no recognized colored asset is held at this address",
				map[string]any{"address": address},
			)
		}
		holdings = holdingViews(assetHoldings)
	default:
		assetHoldings, lookupErr := u.assets.LookupAssets(ctx, address)
		var ok bool
		selection, ok = selectFromHoldings(assetHoldings, true)
		if lookupErr != nil || !ok {
			selection, appErr = selectExplicit(ctx, u.catalog, command.AssetType, true, lookupErr != nil)
			if appErr != nil {
				return dto.ImportAccountOutput{}, appErr
			}
		}
		holdings = holdingViews(assetHoldings)
	}

	account, appErr := u.repository.Create(ctx, dto.CreateWalletAccountCommand{
		Kind:        selection.kind,
		Address:     address,
		Asset:       selection.asset,
		BackupState: valueobjects.BackupStateUnknown,
	})
	if appErr != nil {
		return dto.ImportAccountOutput{}, appErr
	}

	return dto.ImportAccountOutput{
		Account:  dto.NewWalletAccountView(account),
		Holdings: holdings,
	}, nil
}
