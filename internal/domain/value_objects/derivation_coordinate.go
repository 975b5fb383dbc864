package valueobjects

import (
	"fmt"

	apperrors "cocoscan/internal/shared_kernel/errors"
)

const (
	hardenedKeyStart uint32 = 0x80000000

	bip44Purpose    uint32 = 44
	bitcoinCoinType uint32 = 0
	externalChain   uint32 = 0
)

// DerivationCoordinate addresses one key on the BIP44 external chain
// m/44'/0'/account'/0/address.
type DerivationCoordinate struct {
	AccountIndex uint32
	AddressIndex uint32
}

func NewDerivationCoordinate(accountIndex, addressIndex uint32) (DerivationCoordinate, *apperrors.AppError) {
	if accountIndex >= hardenedKeyStart {
		return DerivationCoordinate{}, apperrors.NewValidation(
			"derivation_account_index_invalid",
			"account index exceeds hardened derivation range",
			map[string]any{"account_index": accountIndex},
		)
	}
	if addressIndex >= hardenedKeyStart {
		return DerivationCoordinate{}, apperrors.NewValidation(
			"derivation_address_index_invalid",
			"address index exceeds non-hardened derivation range",
			map[string]any{"address_index": addressIndex},
		)
	}

	return DerivationCoordinate{AccountIndex: accountIndex, AddressIndex: addressIndex}, nil
}

// Path returns the child indexes from the root, hardened where BIP44 requires.
func (c DerivationCoordinate) Path() []uint32 {
	return []uint32{
		hardenedKeyStart + bip44Purpose,
		hardenedKeyStart + bitcoinCoinType,
		hardenedKeyStart + c.AccountIndex,
		externalChain,
		c.AddressIndex,
	}
}

func (c DerivationCoordinate) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", bip44Purpose, bitcoinCoinType, c.AccountIndex, externalChain, c.AddressIndex)
}
