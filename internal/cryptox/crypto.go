// Package cryptox derives login credentials from a password.
//
// The password never leaves the client: it is stretched with Argon2id using
// a per-user salt and only the SHA-256 digest of the derived key (the
// verifier) is sent to the server.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of a freshly generated salt.
const SaltSize = 16

func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// Credentials returns the verifier for password and salt and wipes the
// intermediate key.
func Credentials(password []byte, salt []byte) []byte {
	key := DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)
	return MakeVerifier(key)
}

// VerifierEqual compares verifiers in constant time.
func VerifierEqual(a, b []byte) bool {
	return len(a) > 0 && subtle.ConstantTimeCompare(a, b) == 1
}
