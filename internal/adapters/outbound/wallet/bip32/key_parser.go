package bip32

import (
	"sync"

	portsout "cocoscan/internal/application/ports/out"
	"cocoscan/internal/infrastructure/walletkeys"
	apperrors "cocoscan/internal/shared_kernel/errors"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

type KeyParser struct {
	params *chaincfg.Params
}

var _ portsout.HDKeyParser = (*KeyParser)(nil)

func NewKeyParser(params *chaincfg.Params) *KeyParser {
	return &KeyParser{params: params}
}

func (p *KeyParser) ParseExtendedKey(raw string) (portsout.HDKeyNode, *apperrors.AppError) {
	key, keyErr := walletkeys.ParseExtendedKey(raw, p.params)
	if keyErr != nil {
		return nil, mapKeyError(keyErr)
	}
	return newNode(key, p.params), nil
}

func (p *KeyParser) ParsePrivateKey(wif string) (portsout.PrivateKeyMaterial, *apperrors.AppError) {
	key, keyErr := walletkeys.ParseWIF(wif, p.params)
	if keyErr != nil {
		return portsout.PrivateKeyMaterial{}, mapKeyError(keyErr)
	}
	return portsout.PrivateKeyMaterial{WIF: key.WIF, Address: key.Address}, nil
}

// Node wraps an hdkeychain key.
type Node struct {
	key    *hdkeychain.ExtendedKey
	params *chaincfg.Params

	mu       sync.Mutex
	children map[uint32]*Node
}

var _ portsout.HDKeyNode = (*Node)(nil)

func newNode(key *hdkeychain.ExtendedKey, params *chaincfg.Params) *Node {
	return &Node{key: key, params: params}
}

func (n *Node) Depth() uint8 {
	return n.key.Depth()
}

func (n *Node) IsPrivate() bool {
	return n.key.IsPrivate()
}

func (n *Node) Identifier() string {
	identifier, keyErr := walletkeys.Identifier(n.key)
	if keyErr != nil {
		return ""
	}
	return identifier
}

func (n *Node) DeriveChild(path []uint32) (portsout.HDKeyNode, *apperrors.AppError) {
	if len(path) == 0 {
		return n, nil
	}

	// Hardened children are cached: m/44'/0'/account' is shared by every
	// address of an account.
	head, appErr := n.child(path[0])
	if appErr != nil {
		return nil, appErr
	}
	if len(path) == 1 {
		return head, nil
	}
	return head.DeriveChild(path[1:])
}

func (n *Node) child(index uint32) (*Node, *apperrors.AppError) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if cached, ok := n.children[index]; ok {
		return cached, nil
	}

	derived, keyErr := walletkeys.DeriveAlongPath(n.key, walletkeys.DerivationPath{index})
	if keyErr != nil {
		return nil, mapKeyError(keyErr)
	}

	child := newNode(derived, n.params)
	if index >= hdkeychain.HardenedKeyStart {
		if n.children == nil {
			n.children = map[uint32]*Node{}
		}
		n.children[index] = child
	}
	return child, nil
}

func (n *Node) Address() (string, *apperrors.AppError) {
	address, keyErr := walletkeys.P2PKHAddress(n.key, n.params)
	if keyErr != nil {
		return "", mapKeyError(keyErr)
	}
	return address, nil
}

func (n *Node) PrivateKey() (string, *apperrors.AppError) {
	wif, keyErr := walletkeys.EncodeWIF(n.key, n.params)
	if keyErr != nil {
		return "", mapKeyError(keyErr)
	}
	return wif, nil
}

func (n *Node) Serialize() (string, *apperrors.AppError) {
	return n.key.String(), nil
}

func mapKeyError(keyErr *walletkeys.KeyError) *apperrors.AppError {
	if keyErr == nil {
		return nil
	}

	code := string(keyErr.Code)
	if code == "" {
		code = string(walletkeys.CodeDerivationFailed)
	}
	details := map[string]any{
		"reason": keyErr.Message,
	}
	if keyErr.Cause != nil {
		details["cause"] = keyErr.Cause.Error()
	}

	switch keyErr.Code {
	case walletkeys.CodeInvalidKeyMaterialFormat, walletkeys.CodeNetworkMismatch, walletkeys.CodeInvalidDerivationPath:
		return apperrors.NewValidation(code, keyErr.Message, details)
	default:
		return apperrors.NewInternal(code, keyErr.Message, details)
	}
}
