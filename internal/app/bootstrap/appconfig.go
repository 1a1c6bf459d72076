// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries what is specific to the survey back office: where the
// document store lives, how hard REF generation tries before giving up, and
// how large a price list import may be.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Upper bound on pooled connections
	MongoMinPoolSize uint64 // Connections kept warm

	// REF identifier generation
	RefMaxAttempts int // Collision retries before a 409 (0 uses the refid default)

	// Price list import
	MaxImportSize   int64 // Largest accepted import body in bytes
	ImportRateLimit int   // Imports per minute per client address (0 disables)

	// Version is reported by /health.
	Version string
}
