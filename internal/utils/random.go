package utils

import (
	"crypto/rand" // Secure randomness
	"math/big"
)

// RandomDigits returns n cryptographically random decimal digits, used for
// account numbers, card numbers and CVVs
func RandomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}
