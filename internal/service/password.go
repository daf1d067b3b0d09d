package service

import "golang.org/x/crypto/bcrypt"

// Verifier decides how passwords are stored and checked. The observed demo
// behavior is an exact plaintext comparison; bcrypt is available behind the
// same capability for anything beyond a demo.
type Verifier interface {
	Hash(password string) (string, error)
	Compare(stored, candidate string) bool
}

// PlaintextVerifier stores passwords as-is and compares them byte for byte,
// case-sensitive. This mirrors the demo source and is deliberately insecure.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Hash(password string) (string, error) { return password, nil }

func (PlaintextVerifier) Compare(stored, candidate string) bool { return stored == candidate }

// BcryptVerifier stores a bcrypt hash instead. Opt-in via PASSWORD_SCHEME.
type BcryptVerifier struct{}

func (BcryptVerifier) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptVerifier) Compare(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}
