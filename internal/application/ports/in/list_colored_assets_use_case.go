package in

import (
	"context"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type ListColoredAssetsUseCase interface {
	Execute(ctx context.Context, query dto.ListColoredAssetsQuery) (dto.ListColoredAssetsOutput, *apperrors.AppError)
}
