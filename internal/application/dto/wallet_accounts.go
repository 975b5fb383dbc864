package dto

import (
	"time"

	"cocoscan/internal/domain/entities"
	valueobjects "cocoscan/internal/domain/value_objects"
)

const (
	AddressTypeUnknown       = "unknown"
	AddressTypeSingleAddress = "sa"
	AddressTypeColu          = "colu"
)

type WalletAccountView struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Label       string    `json:"label"`
	Address     string    `json:"address,omitempty"`
	AssetID     *string   `json:"asset_id,omitempty"`
	AssetType   *string   `json:"asset_type,omitempty"`
	ReadOnly    bool      `json:"read_only"`
	BackupState string    `json:"backup_state"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewWalletAccountView(account entities.WalletAccount) WalletAccountView {
	view := WalletAccountView{
		ID:          account.ID,
		Kind:        account.Kind.String(),
		Label:       account.Label(),
		Address:     account.Address,
		AssetID:     account.AssetID,
		ReadOnly:    account.Kind.IsReadOnly(),
		BackupState: account.BackupState.String(),
		CreatedAt:   account.CreatedAt,
	}
	if account.AssetType != nil {
		assetType := account.AssetType.String()
		view.AssetType = &assetType
	}
	return view
}

// CreateWalletAccountCommand carries plaintext key material to the account
// store, which encrypts it before writing.
type CreateWalletAccountCommand struct {
	Kind          valueobjects.AccountKind
	Address       string
	Asset         *entities.ColoredAssetDefinition
	PrivateKeyWIF string
	ExtendedKey   string
	BackupState   valueobjects.BackupState
}

type MaterializeColoredAccountCommand struct {
	Asset         entities.ColoredAssetDefinition
	Address       string
	PrivateKeyWIF string
}

// MaterializedColoredAccount reports the account bound to a discovered
// address. Created is false when another writer stored it first.
type MaterializedColoredAccount struct {
	AccountID string
	Created   bool
}

type ImportHDNodeCommand struct {
	ExtendedKey string
	CallbackURL string
}

type ImportHDNodeOutput struct {
	Account   *WalletAccountView `json:"account,omitempty"`
	Discovery *DiscoveryJobView  `json:"discovery,omitempty"`
}

type ImportPrivateKeyCommand struct {
	WIF       string
	AssetType string
}

type ImportAddressCommand struct {
	Address     string
	AddressType string
	AssetType   string
}

type ImportAccountOutput struct {
	Account  WalletAccountView         `json:"account"`
	Holdings []ColoredAssetHoldingView `json:"holdings,omitempty"`
	Upgraded bool                      `json:"upgraded"`
}
