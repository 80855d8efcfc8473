package config

import (
	"os"      // For environment variables
	"strconv" // For string conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string // Application port
	DBUser        string // Database user
	DBPassword    string // Database password
	DBHost        string // Database host
	DBPort        string // Database port
	DBName        string // Database name
	JWTSecret     string // JWT signing secret, also derives the card encryption key
	AdminSetupKey string // Shared key required to register the first admin
	RedisAddr     string // Redis server address
	RedisPass     string // Redis password
	RedisDB       int    // Redis database number
	IsProd        bool   // Is production environment

	// Transfer limits, all overridable via environment
	MaxTransferAmount         float64 // Maximum single internal transfer
	MaxExternalTransferAmount float64 // Maximum single external transfer
	DailyTransferLimit        float64 // Maximum outbound total per account per day
	MinTransferAmount         float64 // Minimum transfer amount
	MinAccountBalance         float64 // Balance floor no transfer may cross
}

// Transfer limit defaults
const (
	DefaultMaxTransferAmount         = 100000.0
	DefaultMaxExternalTransferAmount = 50000.0
	DefaultDailyTransferLimit        = 500000.0
	DefaultMinTransferAmount         = 0.01
	DefaultMinAccountBalance         = 0.0
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       os.Getenv("APP_PORT"),          // Application port
		DBUser:        os.Getenv("DB_USER"),           // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:        os.Getenv("DB_HOST"),           // Database host
		DBPort:        os.Getenv("DB_PORT"),           // Database port
		DBName:        os.Getenv("DB_NAME"),           // Database name
		JWTSecret:     os.Getenv("JWT_SECRET"),        // JWT secret key
		AdminSetupKey: os.Getenv("ADMIN_SETUP_KEY"),   // Admin registration key
		RedisAddr:     os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:       redisDB,                        // Redis database number
		IsProd:        os.Getenv("IS_PROD") == "true", // Is production environment

		MaxTransferAmount:         envFloat("MAX_TRANSFER_AMOUNT", DefaultMaxTransferAmount),
		MaxExternalTransferAmount: envFloat("MAX_EXTERNAL_TRANSFER_AMOUNT", DefaultMaxExternalTransferAmount),
		DailyTransferLimit:        envFloat("DAILY_TRANSFER_LIMIT", DefaultDailyTransferLimit),
		MinTransferAmount:         envFloat("MIN_TRANSFER_AMOUNT", DefaultMinTransferAmount),
		MinAccountBalance:         envFloat("MIN_ACCOUNT_BALANCE", DefaultMinAccountBalance),
	}
}

// envFloat reads a float environment variable, falling back to def when the
// variable is unset or unparseable
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
