package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Long generates a cryptographically random hex token of byteLen random
// bytes, i.e. 2*byteLen characters.
func Long(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate long token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Short generates a random short token of exactly length characters.
// With digitsOnly it is a decimal string, leading zeros allowed. Otherwise it
// is alphanumeric and guaranteed to contain at least one letter, so a short
// alphanumeric token is never mistakable for a digits-only one.
func Short(length int, digitsOnly bool) (string, error) {
	if digitsOnly {
		return digits(length)
	}

	b := make([]byte, length)
	allDigits := true
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		if err != nil {
			return "", fmt.Errorf("generate short token: %w", err)
		}
		b[i] = alphanumeric[idx.Int64()]
		if b[i] < '0' || b[i] > '9' {
			allDigits = false
		}
	}
	if allDigits {
		// Remap the first character into the letter range. The resulting
		// distribution is not uniform over the token space; known weakness
		// inherited from the original digit-avoidance rule.
		idx, err := rand.Int(rand.Reader, big.NewInt(26))
		if err != nil {
			return "", fmt.Errorf("generate short token: %w", err)
		}
		b[0] = alphanumeric[idx.Int64()]
	}
	return string(b), nil
}

func digits(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate digit token: %w", err)
		}
		b[i] = byte('0' + n.Int64())
	}
	return string(b), nil
}
