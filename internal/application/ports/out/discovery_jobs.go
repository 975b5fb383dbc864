package out

import (
	"context"

	"cocoscan/internal/application/dto"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type DiscoveryProgressObserver interface {
	OnDiscoveryProgress(scanned int)
}

type DiscoveryJobScheduler interface {
	Schedule(ctx context.Context, root HDKeyNode, callbackURL string) (dto.DiscoveryJobView, *apperrors.AppError)
	Get(ctx context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError)
	Cancel(ctx context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError)
	Retry(ctx context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError)
}

type DiscoveryAvailability interface {
	Accepting() bool
}

type DiscoveryResultNotifier interface {
	NotifyDiscoveryResult(
		ctx context.Context,
		event dto.DiscoveryResultEvent,
	) (dto.DiscoveryResultEventOutput, *apperrors.AppError)
}
