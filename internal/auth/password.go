package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// IsPasswordHash reports whether the configured password is a bcrypt hash
// rather than a plaintext secret.
func IsPasswordHash(configured string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(configured, prefix) {
			return true
		}
	}
	return false
}

// CredentialsMatch compares submitted credentials against the configured
// administrator. An unconfigured username or password never matches.
func CredentialsMatch(wantUser, wantPassword, user, password string) bool {
	if wantUser == "" || wantPassword == "" {
		return false
	}
	userOK := SecureEqual(wantUser, user)

	var passOK bool
	if IsPasswordHash(wantPassword) {
		passOK = ComparePassword(wantPassword, password) == nil
	} else {
		passOK = SecureEqual(wantPassword, password)
	}
	return userOK && passOK
}

// SecureEqual compares two secrets in constant time.
func SecureEqual(want, got string) bool {
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
