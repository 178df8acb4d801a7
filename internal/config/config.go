package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	SMTP       SMTPConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// AppConfig holds application-level settings
type AppConfig struct {
	BaseURL    string
	AdminEmail string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// SMTPConfig holds outbound mail configuration. Sends are disabled when
// Host or User is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	FromName string
	FromAddr string
}

// Enabled reports whether outbound mail is configured
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != ""
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BlockchainConfig holds BNB Smart Chain settings for verification proofs
type BlockchainConfig struct {
	BSCRPC             string
	ExplorerURL        string
	KYBRegistryAddress string
	KYCRegistryAddress string
	SignerPrivateKey   string
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	CodeEncryptionKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		App: AppConfig{
			BaseURL:    getEnv("APP_BASE_URL", "http://localhost:3000"),
			AdminEmail: getEnv("ADMIN_EMAIL", "admin@cryptorafts.com"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cryptorafts"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			FromName: getEnv("SMTP_FROM_NAME", "CryptoRafts"),
			FromAddr: getEnv("SMTP_FROM_ADDR", "no-reply@cryptorafts.com"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Blockchain: BlockchainConfig{
			BSCRPC:             getEnv("BSC_RPC_URL", "https://bsc-dataseed.binance.org"),
			ExplorerURL:        getEnv("BSC_EXPLORER_URL", "https://bscscan.com"),
			KYBRegistryAddress: getEnv("BNB_KYB_CONTRACT_ADDRESS", ""),
			KYCRegistryAddress: getEnv("BNB_KYC_CONTRACT_ADDRESS", ""),
			SignerPrivateKey:   getEnv("ADMIN_WALLET_PRIVATE_KEY", ""),
		},
		Security: SecurityConfig{
			CodeEncryptionKey: getEnv("CODE_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
