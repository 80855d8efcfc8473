package domain

import "time"

// CardType is the closed set of card products
type CardType string

// Card products
const (
	CardTypeDebit   CardType = "debit"   // Debit card
	CardTypeCredit  CardType = "credit"  // Credit card
	CardTypePrepaid CardType = "prepaid" // Prepaid card
)

// Valid reports whether t is a known card type
func (t CardType) Valid() bool {
	return t == CardTypeDebit || t == CardTypeCredit || t == CardTypePrepaid
}

// CardStatus is the closed set of card states
type CardStatus string

// Card states
const (
	CardStatusActive   CardStatus = "active"   // Usable
	CardStatusInactive CardStatus = "inactive" // Issued but not activated
	CardStatusBlocked  CardStatus = "blocked"  // Blocked by holder or fraud review
	CardStatusExpired  CardStatus = "expired"  // Past expiry date
)

// Valid reports whether s is a known card status
func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusActive, CardStatusInactive, CardStatusBlocked, CardStatusExpired:
		return true
	}
	return false
}

// Card Model. The full PAN and CVV are stored encrypted; only the last four
// digits are kept in the clear for display.
type Card struct {
	ID              uint       `gorm:"primaryKey" json:"id"`                          // Primary key
	AccountID       uint       `gorm:"index;not null" json:"account_id"`              // Owning account
	CardNumberLast4 string     `gorm:"size:4;not null" json:"card_number_last4"`      // Last 4 digits, unencrypted
	EncryptedPAN    string     `gorm:"not null" json:"-"`                             // AES-GCM encrypted card number
	EncryptedCVV    string     `gorm:"not null" json:"-"`                             // AES-GCM encrypted CVV
	CardholderName  string     `gorm:"size:100;not null" json:"cardholder_name"`      // Embossed name
	CardType        CardType   `gorm:"size:10;not null" json:"card_type"`             // debit, credit, prepaid
	Status          CardStatus `gorm:"size:10;not null;default:active" json:"status"` // active, inactive, blocked, expired
	ExpiryMonth     int        `gorm:"not null" json:"expiry_month"`                  // 1-12
	ExpiryYear      int        `gorm:"not null" json:"expiry_year"`                   // Full year, e.g. 2029
	IssuedAt        time.Time  `json:"issued_at"`                                     // When the card was issued
	CreatedAt       time.Time  `json:"created_at"`                                    // Timestamp of creation
	UpdatedAt       time.Time  `json:"updated_at"`                                    // Timestamp of last update
}
