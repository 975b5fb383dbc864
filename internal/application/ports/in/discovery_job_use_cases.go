package in

import (
	"context"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type GetDiscoveryJobUseCase interface {
	Execute(ctx context.Context, query dto.DiscoveryJobQuery) (dto.DiscoveryJobView, *apperrors.AppError)
}

type CancelDiscoveryJobUseCase interface {
	Execute(ctx context.Context, query dto.DiscoveryJobQuery) (dto.DiscoveryJobView, *apperrors.AppError)
}

type RetryDiscoveryJobUseCase interface {
	Execute(ctx context.Context, query dto.DiscoveryJobQuery) (dto.DiscoveryJobView, *apperrors.AppError)
}
