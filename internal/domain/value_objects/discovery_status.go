package valueobjects

type DiscoveryStatus string

const (
	DiscoveryStatusQueued    DiscoveryStatus = "queued"
	DiscoveryStatusRunning   DiscoveryStatus = "running"
	DiscoveryStatusCompleted DiscoveryStatus = "completed"
	DiscoveryStatusCanceled  DiscoveryStatus = "canceled"
	DiscoveryStatusFailed    DiscoveryStatus = "failed"
)

func (s DiscoveryStatus) IsTerminal() bool {
	switch s {
	case DiscoveryStatusCompleted, DiscoveryStatusCanceled, DiscoveryStatusFailed:
		return true
	default:
		return false
	}
}

func (s DiscoveryStatus) String() string {
	return string(s)
}

type DiscoveryOutcome string

const (
	DiscoveryOutcomeAccountsFound DiscoveryOutcome = "accounts_found"
	DiscoveryOutcomeNoAssetsFound DiscoveryOutcome = "no_assets_found"
)

func ResolveDiscoveryOutcome(accountsCreated int) DiscoveryOutcome {
	if accountsCreated > 0 {
		return DiscoveryOutcomeAccountsFound
	}
	return DiscoveryOutcomeNoAssetsFound
}
