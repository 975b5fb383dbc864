package out

import (
	"context"

	apperrors "cocoscan/internal/shared_kernel/errors"
)

type PersistenceBootstrapGateway interface {
	CheckReadiness(ctx context.Context) *apperrors.AppError
	RunMigrations(ctx context.Context) *apperrors.AppError
	SyncColoredAssetCatalog(ctx context.Context) *apperrors.AppError
}
