package api

import (
	"net/http" // HTTP status codes
	"time"     // Issue timestamps

	"banking_api/internal/cards"  // Card number generation
	"banking_api/internal/domain" // Importing domain models
	"banking_api/internal/utils"  // Encryption helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// IssueCardRequest issues a new card against an account
type IssueCardRequest struct {
	AccountID      uint            `json:"account_id" binding:"required"`                    // Owning account
	CardholderName string          `json:"cardholder_name" binding:"required,min=2,max=100"` // Embossed name
	CardType       domain.CardType `json:"card_type" binding:"required"`                     // debit, credit, prepaid
}

// CardStatusUpdateRequest changes a card's status
type CardStatusUpdateRequest struct {
	Status domain.CardStatus `json:"status" binding:"required"` // New status
}

// IssueCardHandler issues a card: validates the account, generates a
// Luhn-valid number and CVV, and stores both encrypted. Only the last four
// digits ever appear in responses or logs.
func IssueCardHandler(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IssueCardRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !req.CardType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Card type must be debit, credit or prepaid"})
			return
		}
		// Validate the account exists
		var account domain.Account
		if err := db.First(&account, req.AccountID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		// Business rule: at most five active cards per account
		var activeCards int64
		if err := db.Model(&domain.Card{}).
			Where("account_id = ? AND status = ?", req.AccountID, domain.CardStatusActive).
			Count(&activeCards).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count cards"})
			return
		}
		if activeCards >= cards.MaxActivePerAccount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Account has reached maximum number of active cards (5)"})
			return
		}

		// Generate card details
		cardNumber := cards.GenerateCardNumber()
		cvv := cards.GenerateCVV()
		expiryMonth, expiryYear := cards.ExpiryDate(time.Now())

		// Store encrypted; the plaintext PAN and CVV never leave this scope
		encryptedPAN, err := utils.EncryptData(cardNumber, secret)
		if err != nil {
			respondCardIssueFailure(c, req.AccountID, err)
			return
		}
		encryptedCVV, err := utils.EncryptData(cvv, secret)
		if err != nil {
			respondCardIssueFailure(c, req.AccountID, err)
			return
		}
		card := domain.Card{
			AccountID:       req.AccountID,
			CardNumberLast4: cardNumber[len(cardNumber)-4:],
			EncryptedPAN:    encryptedPAN,
			EncryptedCVV:    encryptedCVV,
			CardholderName:  req.CardholderName,
			CardType:        req.CardType,
			Status:          domain.CardStatusActive,
			ExpiryMonth:     expiryMonth,
			ExpiryYear:      expiryYear,
			IssuedAt:        time.Now(),
		}
		if err := db.Create(&card).Error; err != nil {
			respondCardIssueFailure(c, req.AccountID, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"card_id":    card.ID,
			"account_id": req.AccountID,
			"card_last4": card.CardNumberLast4,
			"card_type":  card.CardType,
		}).Info("Card issued")
		c.JSON(http.StatusCreated, gin.H{
			"card":          card,
			"masked_number": cards.MaskNumber(card.CardNumberLast4),
		})
	}
}

// respondCardIssueFailure logs and answers a failed card issuance
func respondCardIssueFailure(c *gin.Context, accountID uint, err error) {
	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"error":      err.Error(),
	}).Error("Card issuance failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue card"})
}

// GetCardHandler returns a card with its masked number
func GetCardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var card domain.Card
		if err := db.First(&card, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"card":          card,
			"masked_number": cards.MaskNumber(card.CardNumberLast4),
		})
	}
}

// ListAccountCardsHandler returns all cards for an account
func ListAccountCardsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var account domain.Account
		if err := db.First(&account, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		var accountCards []domain.Card
		if err := db.Where("account_id = ?", id).Find(&accountCards).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cards"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cards": accountCards})
	}
}

// UpdateCardStatusHandler changes a card's status (activate, block, ...)
func UpdateCardStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var req CardStatusUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active, inactive, blocked or expired"})
			return
		}
		var card domain.Card
		if err := db.First(&card, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		if err := db.Model(&card).Update("status", req.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card status"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"card_id": card.ID,
			"status":  req.Status,
		}).Info("Card status updated")
		c.JSON(http.StatusOK, gin.H{"card": card})
	}
}

// CardDetailsHandler returns the decrypted card number and CVV. Admin-only
// and for authorized operations; the decrypted values are never logged.
func CardDetailsHandler(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var card domain.Card
		if err := db.First(&card, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		cardNumber, err := utils.DecryptData(card.EncryptedPAN, secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decrypt card data"})
			return
		}
		cvv, err := utils.DecryptData(card.EncryptedCVV, secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decrypt card data"})
			return
		}
		logrus.WithField("card_id", card.ID).Warn("Decrypted card details accessed")
		c.JSON(http.StatusOK, gin.H{
			"card":        card,
			"card_number": cardNumber,
			"cvv":         cvv,
		})
	}
}
