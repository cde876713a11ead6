package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestSigningSecretIsStable(t *testing.T) {
	t.Parallel()
	s := NewStore(keyring.NewArrayKeyring(nil))

	first, err := s.SigningSecret()
	if err != nil {
		t.Fatalf("signing secret: %v", err)
	}
	if len(first) != 64 {
		t.Fatalf("expected a 32-byte hex secret, got %q", first)
	}
	second, err := s.SigningSecret()
	if err != nil {
		t.Fatalf("signing secret: %v", err)
	}
	if first != second {
		t.Fatalf("expected the stored secret to be reused")
	}
}

func TestDeleteRemovesCredential(t *testing.T) {
	t.Parallel()
	s := NewStore(keyring.NewArrayKeyring(nil))
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, keyring.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}
