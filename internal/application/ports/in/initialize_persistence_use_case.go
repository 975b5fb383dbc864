package in

import (
	"context"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

// InitializePersistenceUseCase prepares the database before the service
// accepts traffic. Any error aborts startup.
type InitializePersistenceUseCase interface {
	Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError
}
