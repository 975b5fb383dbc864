package use_cases

import (
	"context"
	"strings"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type getDiscoveryJobUseCase struct {
	scheduler portsout.DiscoveryJobScheduler
}

func NewGetDiscoveryJobUseCase(scheduler portsout.DiscoveryJobScheduler) portsin.GetDiscoveryJobUseCase {
	return &getDiscoveryJobUseCase{scheduler: scheduler}
}

func (u *getDiscoveryJobUseCase) Execute(ctx context.Context, query dto.DiscoveryJobQuery) (dto.DiscoveryJobView, *apperrors.AppError) {
	jobID, appErr := validateDiscoveryJobQuery(u.scheduler, query)
	if appErr != nil {
		return dto.DiscoveryJobView{}, appErr
	}
	return u.scheduler.Get(ctx, jobID)
}

type cancelDiscoveryJobUseCase struct {
	scheduler portsout.DiscoveryJobScheduler
}

func NewCancelDiscoveryJobUseCase(scheduler portsout.DiscoveryJobScheduler) portsin.CancelDiscoveryJobUseCase {
	return &cancelDiscoveryJobUseCase{scheduler: scheduler}
}

func (u *cancelDiscoveryJobUseCase) Execute(ctx context.Context, query dto.DiscoveryJobQuery) (dto.DiscoveryJobView, *apperrors.AppError) {
	jobID, appErr := validateDiscoveryJobQuery(u.scheduler, query)
	if appErr != nil {
		return dto.DiscoveryJobView{}, appErr
	}
	return u.scheduler.Cancel(ctx, jobID)
}

type retryDiscoveryJobUseCase struct {
	scheduler portsout.DiscoveryJobScheduler
}

func NewRetryDiscoveryJobUseCase(scheduler portsout.DiscoveryJobScheduler) portsin.RetryDiscoveryJobUseCase {
	return &retryDiscoveryJobUseCase{scheduler: scheduler}
}

func (u *retryDiscoveryJobUseCase) Execute(ctx context.Context, query dto.DiscoveryJobQuery) (dto.DiscoveryJobView, *apperrors.AppError) {
	jobID, appErr := validateDiscoveryJobQuery(u.scheduler, query)
	if appErr != nil {
		return dto.DiscoveryJobView{}, appErr
	}
	return u.scheduler.Retry(ctx, jobID)
}

func validateDiscoveryJobQuery(scheduler portsout.DiscoveryJobScheduler, query dto.DiscoveryJobQuery) (string, *apperrors.AppError) {
	if scheduler == nil {
		return "", apperrors.NewInternal(
			"discovery_job_scheduler_missing",
			"discovery job scheduler is required",
			nil,
		)
	}

	jobID := strings.TrimSpace(query.JobID)
	if jobID == "" {
		return "", apperrors.NewValidation(
			"invalid_request",
			"discovery id is required",
			map[string]any{"field": "id"},
		)
	}
	return jobID, nil
}
