package valueobjects

import apperrors "cocoscan/internal/shared_kernel/errors"

type AccountKind string

const (
	AccountKindColored               AccountKind = "colored"
	AccountKindColoredReadOnly       AccountKind = "colored_read_only"
	AccountKindSingleAddress         AccountKind = "single_address"
	AccountKindSingleAddressReadOnly AccountKind = "single_address_read_only"
	AccountKindBIP44                 AccountKind = "bip44"
)

func ParseAccountKind(raw string) (AccountKind, *apperrors.AppError) {
	switch AccountKind(raw) {
	case AccountKindColored,
		AccountKindColoredReadOnly,
		AccountKindSingleAddress,
		AccountKindSingleAddressReadOnly,
		AccountKindBIP44:
		return AccountKind(raw), nil
	default:
		return "", apperrors.NewInternal(
			"account_kind_invalid",
			"account kind is invalid",
			map[string]any{"kind": raw},
		)
	}
}

func (k AccountKind) IsColored() bool {
	return k == AccountKindColored || k == AccountKindColoredReadOnly
}

func (k AccountKind) IsReadOnly() bool {
	return k == AccountKindColoredReadOnly || k == AccountKindSingleAddressReadOnly
}

// SpendableCounterpart is the kind a read-only account becomes once its
// private key is attached.
func (k AccountKind) SpendableCounterpart() AccountKind {
	switch k {
	case AccountKindColoredReadOnly:
		return AccountKindColored
	case AccountKindSingleAddressReadOnly:
		return AccountKindSingleAddress
	default:
		return k
	}
}

func (k AccountKind) String() string {
	return string(k)
}

type BackupState string

const (
	BackupStateUnknown  BackupState = "unknown"
	BackupStateIgnored  BackupState = "ignored"
	BackupStateVerified BackupState = "verified"
)

func ParseBackupState(raw string) (BackupState, *apperrors.AppError) {
	switch BackupState(raw) {
	case BackupStateUnknown, BackupStateIgnored, BackupStateVerified:
		return BackupState(raw), nil
	default:
		return "", apperrors.NewInternal(
			"backup_state_invalid",
			"backup state is invalid",
			map[string]any{"backup_state": raw},
		)
	}
}

func (s BackupState) String() string {
	return string(s)
}
