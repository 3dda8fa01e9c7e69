package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenVerificationCode returns a 5-digit code: first digit 1-9, then four zero-padded digits.
func GenVerificationCode() (string, error) {
	first, err := rand.Int(rand.Reader, big.NewInt(9))
	if err != nil {
		return "", err
	}
	rest, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d%04d", first.Int64()+1, rest.Int64()), nil
}

// GenResetToken returns a raw token (20 random bytes, hex) and its sha256 hash.
// Only the hash is persisted; the raw token goes into the emailed link.
func GenResetToken() (raw string, hash string, err error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, HashToken(raw), nil
}

// HashToken is the one-way hash stored for reset tokens.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
