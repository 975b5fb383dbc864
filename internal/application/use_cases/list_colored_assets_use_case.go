package use_cases

import (
	"context"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type listColoredAssetsUseCase struct {
	readModel portsout.ColoredAssetCatalogReadModel
}

func NewListColoredAssetsUseCase(readModel portsout.ColoredAssetCatalogReadModel) portsin.ListColoredAssetsUseCase {
	return &listColoredAssetsUseCase{readModel: readModel}
}

func (u *listColoredAssetsUseCase) Execute(ctx context.Context, _ dto.ListColoredAssetsQuery) (dto.ListColoredAssetsOutput, *apperrors.AppError) {
	if u.readModel == nil {
		return dto.ListColoredAssetsOutput{}, apperrors.NewInternal(
			"colored_asset_catalog_read_model_missing",
			"colored asset catalog read model is required",
			nil,
		)
	}

	definitions, appErr := u.readModel.ListEnabled(ctx)
	if appErr != nil {
		return dto.ListColoredAssetsOutput{}, appErr
	}

	assets := make([]dto.ColoredAssetView, 0, len(definitions))
	for _, definition := range definitions {
		assets = append(assets, dto.ColoredAssetView{
			AssetID:      definition.AssetID,
			Type:         definition.Type.String(),
			Name:         definition.Name,
			Divisibility: definition.Divisibility,
		})
	}

	return dto.ListColoredAssetsOutput{Assets: assets}, nil
}
