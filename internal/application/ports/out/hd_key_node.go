package out

import apperrors "cocoscan/internal/shared_kernel/errors"

// HDKeyNode is a node of a BIP32 key tree.
type HDKeyNode interface {
	Depth() uint8
	IsPrivate() bool
	// Identifier is a stable public fingerprint of the node, safe to log.
	Identifier() string
	DeriveChild(path []uint32) (HDKeyNode, *apperrors.AppError)
	Address() (string, *apperrors.AppError)
	// PrivateKey returns the node key in WIF.
	PrivateKey() (string, *apperrors.AppError)
	Serialize() (string, *apperrors.AppError)
}

type PrivateKeyMaterial struct {
	WIF     string
	Address string
}

type HDKeyParser interface {
	ParseExtendedKey(raw string) (HDKeyNode, *apperrors.AppError)
	ParsePrivateKey(wif string) (PrivateKeyMaterial, *apperrors.AppError)
}
