package use_cases

import (
	"context"
	"strconv"
	"time"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type initializePersistenceUseCase struct {
	gateway portsout.PersistenceBootstrapGateway
}

func NewInitializePersistenceUseCase(gateway portsout.PersistenceBootstrapGateway) portsin.InitializePersistenceUseCase {
	return &initializePersistenceUseCase{
		gateway: gateway,
	}
}

// Execute waits for the database, applies migrations and then syncs the
// colored asset catalog seed. Each step runs only if the previous one passed.
func (u *initializePersistenceUseCase) Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError {
	if u.gateway == nil {
		return apperrors.NewInternal(
			"PERSISTENCE_GATEWAY_MISSING",
			"persistence gateway is required",
			nil,
		)
	}
	if appErr := validateInitializePersistenceCommand(command); appErr != nil {
		return appErr
	}

	if appErr := u.waitForDatabase(ctx, command); appErr != nil {
		return appErr
	}
	if appErr := u.gateway.RunMigrations(ctx); appErr != nil {
		return appErr
	}
	return u.gateway.SyncColoredAssetCatalog(ctx)
}

func validateInitializePersistenceCommand(command dto.InitializePersistenceCommand) *apperrors.AppError {
	if command.ReadinessTimeout <= 0 {
		return apperrors.NewValidation(
			"READINESS_TIMEOUT_INVALID",
			"readiness timeout must be greater than zero",
			nil,
		)
	}
	if command.ReadinessRetryInterval <= 0 {
		return apperrors.NewValidation(
			"READINESS_RETRY_INTERVAL_INVALID",
			"readiness retry interval must be greater than zero",
			nil,
		)
	}
	return nil
}

func (u *initializePersistenceUseCase) waitForDatabase(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError {
	readinessCtx, cancel := context.WithTimeout(ctx, command.ReadinessTimeout)
	defer cancel()

	attempts := 0
	var lastErr *apperrors.AppError
	for {
		attempts++
		lastErr = u.gateway.CheckReadiness(readinessCtx)
		if lastErr == nil {
			return nil
		}

		timer := time.NewTimer(command.ReadinessRetryInterval)
		select {
		case <-readinessCtx.Done():
			timer.Stop()
			return readinessFailure(ctx, command, attempts, lastErr)
		case <-timer.C:
		}
	}
}

// readinessFailure tells a shutdown during startup apart from a database
// that never came up.
func readinessFailure(
	ctx context.Context,
	command dto.InitializePersistenceCommand,
	attempts int,
	lastErr *apperrors.AppError,
) *apperrors.AppError {
	details := map[string]any{
		"attempts":  strconv.Itoa(attempts),
		"timeout":   command.ReadinessTimeout.String(),
		"last_code": lastErr.Code,
	}
	if ctx.Err() != nil {
		return apperrors.NewCanceled(
			"DB_READINESS_CANCELED",
			"database readiness wait was canceled",
			details,
		)
	}
	return apperrors.NewInternal(
		"DB_READINESS_TIMEOUT",
		"database readiness check timed out",
		details,
	)
}
