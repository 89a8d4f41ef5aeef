package utils

import "time"

// Application constants
const (
	AppName = "RK Consultants"

	DefaultPort       = "3000"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = "5432"
	DefaultDBName     = "rk_consultants"
	DefaultDBUser     = "postgres"
	DefaultDBPassword = "postgres"

	// Login tokens live for one hour.
	JWTExpiration = time.Hour

	// Per-request database budget imposed by handlers.
	DBTimeout = 10 * time.Second

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100

	MinPasswordLength = 6

	MinRating = 1
	MaxRating = 5

	DefaultCurrency = "INR"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid credentials"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized"
	ErrForbidden          = "Forbidden: Admin access required"

	ErrInvalidEmail = "Invalid email format"
	ErrInvalidID    = "Invalid ID"

	ErrInternalServer = "Internal server error"
	ErrTooManyRequest = "Too many requests, please try again later"
)

// MsgLoginSuccess is the login response message
const MsgLoginSuccess = "Login successful"
