package in

import (
	"context"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

// GetHealthUseCase reports liveness. It fails with a canceled error once the
// service stops accepting discoveries.
type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
