package out

import (
	"context"

	"cocoscan/internal/application/dto"
	"cocoscan/internal/domain/entities"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type WalletAccountLookup interface {
	FindAccountIDByAddress(ctx context.Context, address string) (string, bool, *apperrors.AppError)
}

type ColoredAccountMaterializer interface {
	EnableAsset(ctx context.Context, command dto.MaterializeColoredAccountCommand) (dto.MaterializedColoredAccount, *apperrors.AppError)
}

type WalletAccountRepository interface {
	WalletAccountLookup
	ColoredAccountMaterializer
	FindByAddress(ctx context.Context, address string) (entities.WalletAccount, bool, *apperrors.AppError)
	Create(ctx context.Context, command dto.CreateWalletAccountCommand) (entities.WalletAccount, *apperrors.AppError)
	AttachPrivateKey(ctx context.Context, accountID string, privateKeyWIF string) (entities.WalletAccount, *apperrors.AppError)
}
