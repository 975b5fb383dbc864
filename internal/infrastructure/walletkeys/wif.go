package walletkeys

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

type PrivateKey struct {
	WIF     string
	Address string
}

// ParseWIF decodes a wallet import format key and derives its P2PKH address,
// honouring the key's public key compression flag.
func ParseWIF(raw string, params *chaincfg.Params) (PrivateKey, *KeyError) {
	wif, err := btcutil.DecodeWIF(strings.TrimSpace(raw))
	if err != nil {
		return PrivateKey{}, wrapKeyError(CodeInvalidKeyMaterialFormat, "invalid wif encoding", err)
	}
	if !wif.IsForNet(params) {
		return PrivateKey{}, wrapKeyError(CodeNetworkMismatch, "wif belongs to another network", nil)
	}

	address, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(wif.SerializePubKey()), params)
	if err != nil {
		return PrivateKey{}, wrapKeyError(CodeDerivationFailed, "failed to encode address", err)
	}

	return PrivateKey{
		WIF:     wif.String(),
		Address: address.EncodeAddress(),
	}, nil
}
