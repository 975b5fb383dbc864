package walletkeys

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// ParseExtendedKey decodes a serialized xprv/xpub (or testnet tprv/tpub) and
// checks it belongs to the given network.
func ParseExtendedKey(serialized string, params *chaincfg.Params) (*hdkeychain.ExtendedKey, *KeyError) {
	key, err := hdkeychain.NewKeyFromString(strings.TrimSpace(serialized))
	if err != nil {
		return nil, wrapKeyError(CodeInvalidKeyMaterialFormat, "invalid extended key encoding", err)
	}
	if !key.IsForNet(params) {
		return nil, wrapKeyError(CodeNetworkMismatch, "extended key belongs to another network", nil)
	}
	return key, nil
}

// DeriveAlongPath derives each child in turn. Hardened steps require a
// private key.
func DeriveAlongPath(key *hdkeychain.ExtendedKey, path DerivationPath) (*hdkeychain.ExtendedKey, *KeyError) {
	current := key
	for _, index := range path {
		child, err := current.Derive(index)
		if err != nil {
			if errors.Is(err, hdkeychain.ErrDeriveHardFromPublic) {
				return nil, wrapKeyError(CodePublicKeyOnly, "hardened derivation requires a private key", err)
			}
			return nil, wrapKeyError(CodeDerivationFailed, "child key derivation failed at "+path.String(), err)
		}
		current = child
	}
	return current, nil
}

// Identifier is the hex hash160 of the key's compressed public key. Its first
// four bytes are the BIP32 fingerprint.
func Identifier(key *hdkeychain.ExtendedKey) (string, *KeyError) {
	publicKey, err := key.ECPubKey()
	if err != nil {
		return "", wrapKeyError(CodeInvalidKeyMaterialFormat, "extended key has no usable public key", err)
	}
	return hex.EncodeToString(btcutil.Hash160(publicKey.SerializeCompressed())), nil
}

// P2PKHAddress encodes the key's compressed public key as a legacy
// pay-to-pubkey-hash address.
func P2PKHAddress(key *hdkeychain.ExtendedKey, params *chaincfg.Params) (string, *KeyError) {
	publicKey, err := key.ECPubKey()
	if err != nil {
		return "", wrapKeyError(CodeInvalidKeyMaterialFormat, "extended key has no usable public key", err)
	}

	address, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(publicKey.SerializeCompressed()), params)
	if err != nil {
		return "", wrapKeyError(CodeDerivationFailed, "failed to encode address", err)
	}
	return address.EncodeAddress(), nil
}

func EncodeWIF(key *hdkeychain.ExtendedKey, params *chaincfg.Params) (string, *KeyError) {
	if !key.IsPrivate() {
		return "", wrapKeyError(CodePublicKeyOnly, "extended key holds no private key", nil)
	}

	privateKey, err := key.ECPrivKey()
	if err != nil {
		return "", wrapKeyError(CodeInvalidKeyMaterialFormat, "extended key has no usable private key", err)
	}

	wif, err := btcutil.NewWIF(privateKey, params, true)
	if err != nil {
		return "", wrapKeyError(CodeDerivationFailed, "failed to encode wif", err)
	}
	return wif.String(), nil
}
