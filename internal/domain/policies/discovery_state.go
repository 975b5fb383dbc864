package policies

import valueobjects "cocoscan/internal/domain/value_objects"

const (
	// AccountGapLimit is the number of consecutive unused accounts after
	// which discovery stops.
	AccountGapLimit = 20
	// AddressGapLimit is the number of consecutive misses on an account's
	// external chain after which the account is considered exhausted.
	AddressGapLimit = 2
)

type LookupOutcome int

const (
	LookupMiss LookupOutcome = iota
	LookupHit
	LookupFailed
)

// DiscoveryState is the scan position and counters of one discovery walk.
// Every transition returns a new value; the receiver is never modified.
type DiscoveryState struct {
	accountIndex       uint32
	addressIndex       uint32
	scanned            int
	accountsCreated    int
	firstAccountID     string
	failedAccounts     int
	emptyAddressStreak int
	emptyAccountStreak int
	accountInUse       bool
}

func NewDiscoveryState() DiscoveryState {
	return DiscoveryState{}
}

func (s DiscoveryState) Coordinate() valueobjects.DerivationCoordinate {
	return valueobjects.DerivationCoordinate{
		AccountIndex: s.accountIndex,
		AddressIndex: s.addressIndex,
	}
}

func (s DiscoveryState) Scanned() int            { return s.scanned }
func (s DiscoveryState) AccountsCreated() int    { return s.accountsCreated }
func (s DiscoveryState) FirstAccountID() string  { return s.firstAccountID }
func (s DiscoveryState) FailedAccounts() int     { return s.failedAccounts }
func (s DiscoveryState) EmptyAddressStreak() int { return s.emptyAddressStreak }
func (s DiscoveryState) EmptyAccountStreak() int { return s.emptyAccountStreak }

// Skip moves past an address that already belongs to an account. Skips are
// not counted as scanned and leave both streaks untouched. An owned address
// marks the account as in use, so it never extends the empty account streak.
func (s DiscoveryState) Skip() DiscoveryState {
	next := s
	next.addressIndex++
	next.accountInUse = true
	return next
}

// Examine records the lookup result for the current address and advances to
// the next index. A failed lookup counts as a miss.
func (s DiscoveryState) Examine(outcome LookupOutcome) DiscoveryState {
	next := s
	next.scanned++
	next.addressIndex++

	if outcome == LookupHit {
		next.emptyAddressStreak = 0
		next.emptyAccountStreak = 0
		next.accountInUse = true
		return next
	}

	next.emptyAddressStreak++
	return next
}

// MaterializationFailed records a hit whose account could not be stored.
// It is examined as a failed lookup and the walk continues.
func (s DiscoveryState) MaterializationFailed() DiscoveryState {
	next := s.Examine(LookupFailed)
	next.failedAccounts++
	return next
}

// Materialized records an account created for a hit.
func (s DiscoveryState) Materialized(accountID string) DiscoveryState {
	next := s
	next.accountsCreated++
	if next.firstAccountID == "" {
		next.firstAccountID = accountID
	}
	return next
}

func (s DiscoveryState) AccountExhausted() bool {
	return s.emptyAddressStreak >= AddressGapLimit
}

// FinishAccount closes the current account and positions the walk at the
// first address of the next one. An account with neither hits nor owned
// addresses extends the empty account streak.
func (s DiscoveryState) FinishAccount() DiscoveryState {
	next := s
	if !s.accountInUse {
		next.emptyAccountStreak++
	}
	next.accountIndex++
	next.addressIndex = 0
	next.emptyAddressStreak = 0
	next.accountInUse = false
	return next
}

func (s DiscoveryState) Exhausted() bool {
	return s.emptyAccountStreak >= AccountGapLimit
}
