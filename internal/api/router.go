package api

import (
	"net/http" // Health responses

	"banking_api/internal/config"     // Application configuration
	"banking_api/internal/errlog"     // Error log middleware
	"banking_api/internal/middleware" // JWT and admin middleware
	"banking_api/internal/transfer"   // Transfer engine

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter wires every endpoint under /api/v1. A nil Redis client is
// allowed; cached handlers then always hit the database.
func NewRouter(db *gorm.DB, rdb *redis.Client, engine *transfer.Engine, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery()) // Standard access log and panic recovery
	r.Use(errlog.Middleware(db))        // Request IDs + persisted failure records
	// Inject the Redis client so mutating handlers can invalidate caches
	r.Use(func(c *gin.Context) {
		if rdb != nil {
			c.Set("redisClient", rdb)
		}
		c.Next()
	})

	// Liveness probe
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", RegisterHandler(db))                               // Register a user
	auth.POST("/register-admin", RegisterAdminHandler(db, cfg.AdminSetupKey)) // Register an admin (setup key required)
	auth.POST("/login", LoginHandler(db, cfg.JWTSecret))                      // Login, returns JWT

	// Everything below requires a valid token
	authed := v1.Group("")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	authed.GET("/auth/me", MeHandler(db)) // Current user info

	// Accounts
	authed.POST("/accounts", CreateAccountHandler(db))                         // Open an account
	authed.GET("/accounts", ListAccountsHandler(db))                           // List accounts
	authed.GET("/accounts/:id", GetAccountHandler(db, rdb))                    // Get one account
	authed.DELETE("/accounts/:id", DeleteAccountHandler(db))                   // Delete an account
	authed.GET("/accounts/:id/transactions", AccountStatementHandler(db, rdb)) // Account statement
	authed.GET("/accounts/:id/cards", ListAccountCardsHandler(db))             // Cards of an account

	// Deposits and withdrawals
	authed.POST("/transactions", CreateTransactionHandler(db)) // Record a deposit or withdrawal
	authed.GET("/transactions/:id", GetTransactionHandler(db)) // Get one ledger entry

	// Transfers (the engine owns all mutation)
	authed.POST("/transfers/internal", InternalTransferHandler(engine)) // Internal transfer
	authed.POST("/transfers/external", ExternalTransferHandler(engine)) // External transfer
	authed.GET("/transfers/:reference_id", GetTransferHandler(engine))  // Lookup by reference ID

	// Cards
	authed.POST("/cards", IssueCardHandler(db, cfg.JWTSecret))     // Issue a card
	authed.GET("/cards/:id", GetCardHandler(db))                   // Get a card (masked)
	authed.PATCH("/cards/:id/status", UpdateCardStatusHandler(db)) // Change card status

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	admin.GET("/users", ListUsersHandler(db, rdb))                         // List users
	admin.GET("/transactions", ListTransactionsHandler(db, rdb))           // List ledger entries
	admin.GET("/errors", ListErrorsHandler(db))                            // List recorded failures
	admin.GET("/errors/summary", ErrorSummaryHandler(db))                  // Failure counts per category
	admin.GET("/errors/recent", RecentErrorsHandler(db))                   // Most recent failures
	admin.GET("/errors/:id", GetErrorHandler(db))                          // One failure record
	admin.DELETE("/errors", PurgeErrorsHandler(db))                        // Purge old failure records
	admin.GET("/cards/:id/details", CardDetailsHandler(db, cfg.JWTSecret)) // Decrypted card details

	return r
}
