package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Mining     MiningConfig
	Cloudinary CloudinaryConfig
	BankVerify BankVerifyConfig
	Admin      AdminConfig
}

// AdminConfig bootstraps the first admin account. Left empty, no admin
// is seeded.
type AdminConfig struct {
	Email    string
	Password string
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type MiningConfig struct {
	// SweepCheckInterval is how often the scheduler checks whether the
	// current UTC day's distribution has run yet.
	SweepCheckInterval time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type BankVerifyConfig struct {
	BaseURL   string
	SecretKey string // empty = offline fallback mode
	Timeout   time.Duration
}

// Load reads configuration from environment variables (and an optional
// .env file in the working directory) with development defaults.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig() // .env is optional

	v.SetDefault("PORT", "8090")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("DB_DSN", "root:@tcp(localhost:3306)/apexmine?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("JWT_ACCESS_SECRET", "change-me-in-production")
	v.SetDefault("JWT_REFRESH_SECRET", "change-me-refresh")
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")
	v.SetDefault("JWT_ISSUER", "apexmine")
	v.SetDefault("MINING_SWEEP_CHECK_INTERVAL", "1m")
	v.SetDefault("BANK_VERIFY_BASE_URL", "https://api.paystack.co")
	v.SetDefault("BANK_VERIFY_TIMEOUT", "5s")

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
			RefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
			AccessExpiry:  v.GetDuration("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetDuration("JWT_REFRESH_EXPIRY"),
			Issuer:        v.GetString("JWT_ISSUER"),
		},
		Mining: MiningConfig{
			SweepCheckInterval: v.GetDuration("MINING_SWEEP_CHECK_INTERVAL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		BankVerify: BankVerifyConfig{
			BaseURL:   v.GetString("BANK_VERIFY_BASE_URL"),
			SecretKey: v.GetString("BANK_VERIFY_SECRET_KEY"),
			Timeout:   v.GetDuration("BANK_VERIFY_TIMEOUT"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
}
