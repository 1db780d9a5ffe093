// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework settings (ports, TLS, logging,
// CORS, body limits). Everything specific to the profile registry lives
// here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// RequireTransactions turns the standalone-server fallback into an error.
	RequireTransactions bool

	// ImportChunkSize is the number of profiles committed per transaction
	// during bulk import.
	ImportChunkSize int

	// ImportsPerMinute caps sheet imports per user. Zero disables the cap.
	ImportsPerMinute int

	// Session management configuration
	SessionKey    string // secret for signing session cookies
	SessionName   string // cookie name (default: skprofiles-session)
	SessionDomain string // cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// List cache. RedisURL is optional; without it snapshots stay in memory.
	RedisURL    string
	CacheMaxAge time.Duration

	// Operation timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutBatch  time.Duration
}
