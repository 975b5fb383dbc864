package in

import (
	"context"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

// GetOpenAPISpecUseCase returns the API document served under /swagger.
type GetOpenAPISpecUseCase interface {
	Execute(ctx context.Context, query dto.GetOpenAPISpecQuery) (dto.OpenAPISpecOutput, *apperrors.AppError)
}
