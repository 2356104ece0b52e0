// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to PlanHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: planhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/assets")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/assets")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region string
	StorageS3Bucket string
	StorageS3Prefix string

	// Base URL for OAuth callbacks (e.g., "https://planhub.example.com")
	BaseURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Activity logging modes per category: "all", "db", "log", or "off"
	ActivityLogAuth    string
	ActivityLogAdmin   string
	ActivityLogContent string

	// Admin bootstrap: comma-separated emails that sign in as active
	// admins without waiting for approval, and the one superadmin email.
	AdminEmails     string
	SuperAdminEmail string

	// SPA bundle directory served at the root (blank disables it)
	WebDist string
}
