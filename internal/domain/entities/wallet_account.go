package entities

import (
	"strings"
	"time"

	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"
)

type WalletAccount struct {
	ID          string
	Kind        valueobjects.AccountKind
	Address     string
	AssetID     *string
	AssetType   *valueobjects.ColoredAssetType
	AssetName   *string
	HasKey      bool
	BackupState valueobjects.BackupState
	CreatedAt   time.Time
}

type NewWalletAccountInput struct {
	ID          string
	Kind        valueobjects.AccountKind
	Address     string
	Asset       *ColoredAssetDefinition
	HasKey      bool
	BackupState valueobjects.BackupState
	CreatedAt   time.Time
}

func NewWalletAccount(input NewWalletAccountInput) (WalletAccount, *apperrors.AppError) {
	if input.ID == "" {
		return WalletAccount{}, apperrors.NewInternal(
			"wallet_account_id_missing",
			"wallet account id is required",
			nil,
		)
	}
	if input.Kind != valueobjects.AccountKindBIP44 && strings.TrimSpace(input.Address) == "" {
		return WalletAccount{}, apperrors.NewInternal(
			"wallet_account_address_missing",
			"wallet account address is required",
			map[string]any{"kind": input.Kind.String()},
		)
	}
	if input.Kind.IsColored() && input.Asset == nil {
		return WalletAccount{}, apperrors.NewInternal(
			"wallet_account_asset_missing",
			"colored wallet account requires an asset",
			map[string]any{"kind": input.Kind.String()},
		)
	}
	if input.Kind.IsReadOnly() && input.HasKey {
		return WalletAccount{}, apperrors.NewInternal(
			"wallet_account_read_only_key",
			"read-only wallet account cannot carry a private key",
			map[string]any{"kind": input.Kind.String()},
		)
	}

	backupState := input.BackupState
	if backupState == "" {
		backupState = valueobjects.BackupStateUnknown
	}

	account := WalletAccount{
		ID:          input.ID,
		Kind:        input.Kind,
		Address:     input.Address,
		HasKey:      input.HasKey,
		BackupState: backupState,
		CreatedAt:   input.CreatedAt.UTC(),
	}
	if input.Asset != nil && input.Kind.IsColored() {
		assetID := input.Asset.AssetID
		assetType := input.Asset.Type
		assetName := input.Asset.Name
		account.AssetID = &assetID
		account.AssetType = &assetType
		account.AssetName = &assetName
	}

	return account, nil
}

// Label is the short name shown to a user for an existing account: the asset
// name for colored accounts and a fixed label otherwise.
func (a WalletAccount) Label() string {
	switch {
	case a.Kind.IsColored() && a.AssetName != nil && *a.AssetName != "":
		return *a.AssetName
	case a.Kind.IsColored() && a.AssetType != nil:
		return a.AssetType.String()
	case a.Kind == valueobjects.AccountKindBIP44:
		return "HD Account"
	default:
		return "BTC Single Address"
	}
}
