package cards

import (
	"fmt"
	"time"

	"banking_api/internal/utils" // Secure digit generation
)

// IssuerBIN is the bank identification number prefixing every generated
// card number (Visa test range)
const IssuerBIN = "400000"

// MaxActivePerAccount caps how many active cards one account may hold
const MaxActivePerAccount = 5

// GenerateCardNumber produces a Luhn-valid 16-digit card number: the issuer
// BIN, nine random digits, and the check digit
func GenerateCardNumber() string {
	partial := IssuerBIN + utils.RandomDigits(9)
	return partial + fmt.Sprintf("%d", luhnCheckDigit(partial))
}

// GenerateCVV produces a random 3-digit CVV
func GenerateCVV() string {
	return utils.RandomDigits(3)
}

// ExpiryDate returns the month and full year three years from now
func ExpiryDate(now time.Time) (month, year int) {
	expiry := now.AddDate(3, 0, 0)
	return int(expiry.Month()), expiry.Year()
}

// MaskNumber formats a card for display from its last four digits,
// e.g. ****-****-****-1234
func MaskNumber(last4 string) string {
	return "****-****-****-" + last4
}

// luhnCheckDigit computes the Luhn check digit for a partial card number
func luhnCheckDigit(number string) int {
	sum := 0
	// Double every second digit from right to left
	double := true
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// ValidLuhn reports whether a full card number passes the Luhn check
func ValidLuhn(number string) bool {
	if number == "" {
		return false
	}
	return luhnCheckDigit(number[:len(number)-1]) == int(number[len(number)-1]-'0')
}
