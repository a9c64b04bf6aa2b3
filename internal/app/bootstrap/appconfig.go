// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS, body limits); AppConfig carries everything specific to this
// application: database connection, token signing, external providers.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session token configuration
	JWTSecret string        // Secret for signing session tokens (must be strong in production)
	TokenTTL  time.Duration // Session token validity window

	// Google sign-in
	GoogleClientID string // OAuth2 client ID the posted ID tokens must be issued for

	// Cloudinary direct-upload signing
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Transactional email
	SendGridAPIKey string
	EmailSender    string // From address for outgoing mail
	EmailName      string // From display name

	// Base URL for verification links
	BaseURL string // e.g., "https://eventra.app" or "http://localhost:3000"
}
