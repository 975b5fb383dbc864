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

type importPrivateKeyUseCase struct {
	parser     portsout.HDKeyParser
	repository portsout.WalletAccountRepository
	assets     portsout.ColoredAssetLookupGateway
	catalog    portsout.ColoredAssetCatalogReadModel
}

func NewImportPrivateKeyUseCase(
	parser portsout.HDKeyParser,
	repository portsout.WalletAccountRepository,
	assets portsout.ColoredAssetLookupGateway,
	catalog portsout.ColoredAssetCatalogReadModel,
) portsin.ImportPrivateKeyUseCase {
	return &importPrivateKeyUseCase{
		parser:     parser,
		repository: repository,
		assets:     assets,
		catalog:    catalog,
	}
}

func (u *importPrivateKeyUseCase) Execute(
	ctx context.Context,
	command dto.ImportPrivateKeyCommand,
) (dto.ImportAccountOutput, *apperrors.AppError) {
	if u.parser == nil || u.repository == nil || u.assets == nil {
		return dto.ImportAccountOutput{}, apperrors.NewInternal(
			"import_private_key_dependencies_missing",
			"key parser, account repository and asset lookup are required",
			nil,
		)
	}
	if strings.TrimSpace(command.WIF) == "" {
		return dto.ImportAccountOutput{}, apperrors.NewValidation(
			"invalid_request",
			"wif is required",
			map[string]any{"field": "wif"},
		)
	}

	material, appErr := u.parser.ParsePrivateKey(command.WIF)
	if appErr != nil {
		return dto.ImportAccountOutput{}, appErr
	}

	existing, found, appErr := u.repository.FindByAddress(ctx, material.Address)
	if appErr != nil {
		return dto.ImportAccountOutput{}, appErr
	}
	if found {
		if !existing.Kind.IsReadOnly() {
			return dto.ImportAccountOutput{}, accountExistsError(existing)
		}
		upgraded, attachErr := u.repository.AttachPrivateKey(ctx, existing.ID, material.WIF)
		if attachErr != nil {
			return dto.ImportAccountOutput{}, attachErr
		}
		return dto.ImportAccountOutput{
			Account:  dto.NewWalletAccountView(upgraded),
			Upgraded: true,
		}, nil
	}

	holdings, lookupErr := u.assets.LookupAssets(ctx, material.Address)
	selection, ok := selectFromHoldings(holdings, false)
	if lookupErr != nil || !ok {
		selection, appErr = selectExplicit(ctx, u.catalog, command.AssetType, false, lookupErr != nil)
		if appErr != nil {
			return dto.ImportAccountOutput{}, appErr
		}
	}

	account, appErr := u.repository.Create(ctx, dto.CreateWalletAccountCommand{
		Kind:          selection.kind,
		Address:       material.Address,
		Asset:         selection.asset,
		PrivateKeyWIF: material.WIF,
		BackupState:   valueobjects.BackupStateIgnored,
	})
	if appErr != nil {
		return dto.ImportAccountOutput{}, appErr
	}

	return dto.ImportAccountOutput{
		Account:  dto.NewWalletAccountView(account),
		Holdings: holdingViews(holdings),
	}, nil
}
