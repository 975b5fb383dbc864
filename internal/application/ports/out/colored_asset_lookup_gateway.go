package out

import (
	"context"

	"cocoscan/internal/domain/entities"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

// ColoredAssetLookupGateway returns the recognized colored assets held at an
// address. An empty slice means the address holds none.
type ColoredAssetLookupGateway interface {
	LookupAssets(ctx context.Context, address string) ([]entities.ColoredAssetHolding, *apperrors.AppError)
}

type ColoredAssetCatalogReadModel interface {
	ListEnabled(ctx context.Context) ([]entities.ColoredAssetDefinition, *apperrors.AppError)
}
