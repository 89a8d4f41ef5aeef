package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rk-consultants/rk-server/utils"
)

// Config holds all configuration for the application
type Config struct {
	Port string
	Env  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret     string
	SessionSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
	AdminNotifyEmail string

	SendGridAPIKey string
	MailFrom       string

	AdminUsername string
	AdminPassword string

	LogDir         string
	RateLimitRPS   float64
	RateLimitBurst int
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig loads configuration from the environment. A .env file is read
// when present; values already set in the environment win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	smtpPort, err := envInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	burst, err := envInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	rps, err := strconv.ParseFloat(envOr("RATE_LIMIT_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %v", err)
	}

	config := &Config{
		Port: envOr("PORT", utils.DefaultPort),
		Env:  envOr("ENV", "development"),

		DBHost:     envOr("DB_HOST", utils.DefaultDBHost),
		DBPort:     envOr("DB_PORT", utils.DefaultDBPort),
		DBUser:     envOr("DB_USER", utils.DefaultDBUser),
		DBPassword: envOr("DB_PASSWORD", utils.DefaultDBPassword),
		DBName:     envOr("DB_NAME", utils.DefaultDBName),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         smtpPort,
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:         os.Getenv("SMTP_FROM"),
		AdminNotifyEmail: os.Getenv("ADMIN_NOTIFY_EMAIL"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       os.Getenv("MAIL_FROM"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		LogDir:         envOr("LOG_DIR", "logs"),
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SessionSecret == "" {
		c.SessionSecret = c.JWTSecret
	}
	if c.RazorpayKeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_SECRET is required")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}
