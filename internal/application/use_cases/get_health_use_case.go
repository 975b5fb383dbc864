package use_cases

import (
	"context"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type getHealthUseCase struct {
	network      valueobjects.BitcoinNetwork
	availability portsout.DiscoveryAvailability
}

// NewGetHealthUseCase reports ok while availability accepts work. A nil
// availability is always healthy.
func NewGetHealthUseCase(network valueobjects.BitcoinNetwork, availability portsout.DiscoveryAvailability) portsin.GetHealthUseCase {
	return &getHealthUseCase{
		network:      network,
		availability: availability,
	}
}

func (u *getHealthUseCase) Execute(_ context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	status := valueobjects.NewHealthyStatus()
	if u.availability != nil && !u.availability.Accepting() {
		status = valueobjects.HealthStatusStopping
	}

	if !status.IsHealthy() {
		return dto.HealthOutput{}, apperrors.NewCanceled(
			"service_stopping",
			"service is shutting down",
			map[string]any{"status": status.String()},
		)
	}

	return dto.HealthOutput{
		Status:         status.String(),
		BitcoinNetwork: u.network.String(),
	}, nil
}
