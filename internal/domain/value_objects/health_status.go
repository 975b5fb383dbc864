package valueobjects

type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "ok"
	HealthStatusStopping HealthStatus = "stopping"
)

func NewHealthyStatus() HealthStatus {
	return HealthStatusOK
}

func (h HealthStatus) String() string {
	return string(h)
}

func (h HealthStatus) IsHealthy() bool {
	return h == HealthStatusOK
}
