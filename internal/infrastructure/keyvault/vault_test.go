//go:build !integration

package keyvault

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const testSecret = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestVaultSealOpenRoundTrip(t *testing.T) {
	vault, err := New(testSecret)
	if err != nil {
		t.Fatalf("expected vault, got %v", err)
	}

	plaintext := []byte("L1aW4aubDFB7yfras2S1mN3bqg9nwySY8nkoLmJebSLD5BWv3ENZ")
	sealed, err := vault.Seal(plaintext)
	if err != nil {
		t.Fatalf("expected seal success, got %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Fatalf("expected sealed payload not to contain plaintext")
	}
	if len(sealed) != nonceSize+len(plaintext)+16 {
		t.Fatalf("expected nonce plus box length, got %d", len(sealed))
	}

	opened, err := vault.Open(sealed)
	if err != nil {
		t.Fatalf("expected open success, got %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("expected %q, got %q", plaintext, opened)
	}
}

func TestVaultSealUsesFreshNonce(t *testing.T) {
	vault, err := New(testSecret)
	if err != nil {
		t.Fatalf("expected vault, got %v", err)
	}

	first, _ := vault.Seal([]byte("same"))
	second, _ := vault.Seal([]byte("same"))
	if bytes.Equal(first, second) {
		t.Fatalf("expected distinct ciphertexts for repeated seal")
	}
}

func TestVaultOpenRejectsTamperedPayload(t *testing.T) {
	vault, err := New(testSecret)
	if err != nil {
		t.Fatalf("expected vault, got %v", err)
	}

	sealed, _ := vault.Seal([]byte("secret"))
	sealed[len(sealed)-1] ^= 0x01

	if _, err := vault.Open(sealed); !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("expected ErrOpenFailed, got %v", err)
	}
}

func TestVaultOpenRejectsOtherKey(t *testing.T) {
	vault, _ := New(testSecret)
	other, _ := New(strings.Repeat("ab", 32))

	sealed, _ := vault.Seal([]byte("secret"))
	if _, err := other.Open(sealed); !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("expected ErrOpenFailed, got %v", err)
	}
}

func TestVaultOpenRejectsShortPayload(t *testing.T) {
	vault, _ := New(testSecret)
	if _, err := vault.Open([]byte("short")); !errors.Is(err, ErrSealedTooShort) {
		t.Fatalf("expected ErrSealedTooShort, got %v", err)
	}
}

func TestNewRejectsInvalidSecret(t *testing.T) {
	for _, secret := range []string{"", "zz", strings.Repeat("a", 62), strings.Repeat("a", 66)} {
		if _, err := New(secret); !errors.Is(err, ErrInvalidSecret) {
			t.Fatalf("expected ErrInvalidSecret for %q, got %v", secret, err)
		}
	}
}
