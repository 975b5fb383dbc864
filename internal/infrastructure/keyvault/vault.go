package keyvault

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

var (
	ErrInvalidSecret  = errors.New("key encryption secret must be 64 hex characters")
	ErrSealedTooShort = errors.New("sealed payload is shorter than its nonce")
	ErrOpenFailed     = errors.New("sealed payload failed authentication")
)

// Vault seals account key material with NaCl secretbox. A sealed payload is
// the 24 byte nonce followed by the box.
type Vault struct {
	key     [keySize]byte
	entropy io.Reader
}

func New(secretHex string) (*Vault, error) {
	decoded, err := hex.DecodeString(strings.TrimSpace(secretHex))
	if err != nil || len(decoded) != keySize {
		return nil, ErrInvalidSecret
	}

	vault := &Vault{entropy: rand.Reader}
	copy(vault.key[:], decoded)
	return vault, nil
}

func (v *Vault) Seal(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(v.entropy, nonce[:]); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, &v.key), nil
}

func (v *Vault) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrSealedTooShort
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &v.key)
	if !ok {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
