package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Username validation
	"strings"  // String manipulation

	"banking_api/internal/domain" // Importing domain models
	"banking_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest carries the credentials for a new user
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest carries the credentials for an existing user
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// usernameRe matches 3-30 alphanumeric characters
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9]{3,30}$`)

// isValidUsername checks the username shape
func isValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// isValidPassword checks the password length (72 is the bcrypt input cap)
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72
}

// registerUser validates credentials and creates a user with the given role
func registerUser(c *gin.Context, db *gorm.DB, role domain.UserRole) {
	var req RegisterRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		// If binding fails, return bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	// Validate username and password
	if !isValidUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 alphanumeric characters"})
		return
	}
	if !isValidPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
		return
	}
	// Hash the password and create the user
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	// Store lowercase username to ensure uniqueness
	user := domain.User{Username: strings.ToLower(req.Username), Password: string(hash), Role: role}
	if err := db.Create(&user).Error; err != nil {
		// Creation fails on duplicate username
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// RegisterHandler registers a regular user
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		registerUser(c, db, domain.RoleUser)
	}
}

// RegisterAdminHandler registers an admin user. The request must carry the
// shared setup key; with no key configured the endpoint is disabled.
func RegisterAdminHandler(db *gorm.DB, setupKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if setupKey == "" || c.GetHeader("X-Admin-Setup-Key") != setupKey {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid admin setup key"})
			return
		}
		registerUser(c, db, domain.RoleAdmin)
	}
}

// MeHandler returns the authenticated user's own record
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("userID") // Set by the JWT middleware
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			// Token valid but the user row is gone (deleted account)
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			// Same response for unknown user and wrong password
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
