package adapters

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/natural-surplus/backend/internal/application/adapter"
)

const (
	referralCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	referralCodeLength   = 8
)

type referralCodeGenerator struct{}

// NewReferralCodeGenerator returns a generator of random 8-character base36 codes.
func NewReferralCodeGenerator() adapter.ReferralCodeGenerator {
	return referralCodeGenerator{}
}

// Generate returns a new random referral code.
func (referralCodeGenerator) Generate() (string, error) {
	alphabetSize := big.NewInt(int64(len(referralCodeAlphabet)))
	code := make([]byte, referralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		code[i] = referralCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
