package in

import (
	"context"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type ImportHDNodeUseCase interface {
	Execute(ctx context.Context, command dto.ImportHDNodeCommand) (dto.ImportHDNodeOutput, *apperrors.AppError)
}

type ImportPrivateKeyUseCase interface {
	Execute(ctx context.Context, command dto.ImportPrivateKeyCommand) (dto.ImportAccountOutput, *apperrors.AppError)
}

type ImportAddressUseCase interface {
	Execute(ctx context.Context, command dto.ImportAddressCommand) (dto.ImportAccountOutput, *apperrors.AppError)
}
