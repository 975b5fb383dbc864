package in

import (
	"context"

	"cocoscan/internal/application/dto"
	portsout "cocoscan/internal/application/ports/out"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type DiscoverColoredAccountsUseCase interface {
	Execute(
		ctx context.Context,
		root portsout.HDKeyNode,
		progress portsout.DiscoveryProgressObserver,
	) (dto.DiscoveryResult, *apperrors.AppError)
}
