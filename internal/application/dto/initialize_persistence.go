package dto

import "time"

// InitializePersistenceCommand bounds the database readiness wait. Both
// durations must be positive.
type InitializePersistenceCommand struct {
	ReadinessTimeout       time.Duration
	ReadinessRetryInterval time.Duration
}
