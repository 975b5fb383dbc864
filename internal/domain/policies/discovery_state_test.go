//go:build !integration

package policies

import "testing"

func TestDiscoveryStateTransitionsDoNotMutateReceiver(t *testing.T) {
	initial := NewDiscoveryState()
	_ = initial.Examine(LookupHit).Materialized("acc-1")

	if initial.Scanned() != 0 || initial.AccountsCreated() != 0 || initial.FirstAccountID() != "" {
		t.Fatalf("expected initial state untouched, got %+v", initial)
	}
}

func TestDiscoveryStateMissesExhaustAccount(t *testing.T) {
	state := NewDiscoveryState().Examine(LookupMiss)
	if state.AccountExhausted() {
		t.Fatalf("expected account not exhausted after one miss")
	}

	state = state.Examine(LookupFailed)
	if !state.AccountExhausted() {
		t.Fatalf("expected account exhausted after miss and failed lookup")
	}
	if state.Scanned() != 2 {
		t.Fatalf("expected scanned 2, got %d", state.Scanned())
	}
	if state.Coordinate().AddressIndex != 2 {
		t.Fatalf("expected address index 2, got %d", state.Coordinate().AddressIndex)
	}
}

func TestDiscoveryStateHitResetsBothStreaks(t *testing.T) {
	state := NewDiscoveryState()
	for i := 0; i < 3; i++ {
		state = state.Examine(LookupMiss).Examine(LookupMiss).FinishAccount()
	}
	if state.EmptyAccountStreak() != 3 {
		t.Fatalf("expected empty account streak 3, got %d", state.EmptyAccountStreak())
	}

	state = state.Examine(LookupMiss).Examine(LookupHit)
	if state.EmptyAddressStreak() != 0 {
		t.Fatalf("expected address streak reset, got %d", state.EmptyAddressStreak())
	}
	if state.EmptyAccountStreak() != 0 {
		t.Fatalf("expected account streak reset, got %d", state.EmptyAccountStreak())
	}

	state = state.Examine(LookupMiss).Examine(LookupMiss).FinishAccount()
	if state.EmptyAccountStreak() != 0 {
		t.Fatalf("expected account with hit not to count as empty, got %d", state.EmptyAccountStreak())
	}
	if state.Coordinate().AccountIndex != 4 || state.Coordinate().AddressIndex != 0 {
		t.Fatalf("unexpected coordinate after finish: %s", state.Coordinate())
	}
}

func TestDiscoveryStateSkipLeavesCountersAndMarksAccountInUse(t *testing.T) {
	state := NewDiscoveryState().Skip().Skip()
	if state.Scanned() != 0 {
		t.Fatalf("expected skips not scanned, got %d", state.Scanned())
	}
	if state.Coordinate().AddressIndex != 2 {
		t.Fatalf("expected address index 2, got %d", state.Coordinate().AddressIndex)
	}

	state = state.Examine(LookupMiss).Examine(LookupMiss).FinishAccount()
	if state.EmptyAccountStreak() != 0 {
		t.Fatalf("expected account with owned addresses not to count as empty, got %d", state.EmptyAccountStreak())
	}
}

func TestDiscoveryStateMaterializationFailureCountsAsMiss(t *testing.T) {
	state := NewDiscoveryState().MaterializationFailed()
	if state.Scanned() != 1 || state.EmptyAddressStreak() != 1 {
		t.Fatalf("expected one scanned miss, got scanned=%d streak=%d", state.Scanned(), state.EmptyAddressStreak())
	}
	if state.FailedAccounts() != 1 || state.AccountsCreated() != 0 {
		t.Fatalf("expected one failed account and none created, got failed=%d created=%d", state.FailedAccounts(), state.AccountsCreated())
	}

	state = state.Examine(LookupMiss).FinishAccount()
	if state.EmptyAccountStreak() != 1 {
		t.Fatalf("expected account with only a failed materialization to count as empty, got %d", state.EmptyAccountStreak())
	}
}

func TestDiscoveryStateMaterializedKeepsFirstAccountID(t *testing.T) {
	state := NewDiscoveryState().Materialized("first").Materialized("second")
	if state.AccountsCreated() != 2 {
		t.Fatalf("expected 2 accounts, got %d", state.AccountsCreated())
	}
	if state.FirstAccountID() != "first" {
		t.Fatalf("expected first account id kept, got %s", state.FirstAccountID())
	}
}

func TestDiscoveryStateExhaustedAfterAccountGapLimit(t *testing.T) {
	state := NewDiscoveryState()
	for i := 0; i < AccountGapLimit-1; i++ {
		state = state.Examine(LookupMiss).Examine(LookupMiss).FinishAccount()
	}
	if state.Exhausted() {
		t.Fatalf("expected not exhausted before %d empty accounts", AccountGapLimit)
	}

	state = state.Examine(LookupMiss).Examine(LookupMiss).FinishAccount()
	if !state.Exhausted() {
		t.Fatalf("expected exhausted after %d empty accounts", AccountGapLimit)
	}
}
