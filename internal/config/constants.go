package config

// Supported database drivers and default locations
const (
	// DefaultDatabaseDriver is used when DATABASE_DRIVER is not set
	DefaultDatabaseDriver = "sqlite"

	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./cantata.db"
)
