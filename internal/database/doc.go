// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go        # Connection setup, pooling, migrations
//	├── errors.go          # Sentinel errors and driver error classification
//	├── catalog/           # Artist, album and track queries and search
//	├── playlists/         # Playlist CRUD and track ordering
//	├── users/             # User accounts and profiles
//	├── history/           # Playback history events
//	├── activity/          # User activity and admin audit rows
//	└── recommendations/   # Per-user recommendations cache
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.New(cfg.Database)
//
//	// Create domain-specific repositories
//	catalogRepo := catalog.NewRepository(db.DB)
//	playlistsRepo := playlists.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
//	// Use repositories
//	track, err := catalogRepo.GetTrack(123)
//	playlist, err := playlistsRepo.GetByID(42)
//
// # Error Handling
//
// Repositories never leak raw driver errors for the failure classes
// callers branch on. They wrap the sentinels declared in errors.go:
//
//   - database.ErrNotFound for missing entities
//   - database.ErrConflict for uniqueness violations
//   - database.ErrValidation for bad parameters
//   - database.ErrConnection for connectivity failures
//
// Classify with errors.Is; the wrapped message carries the detail.
//
// # Adding a New Domain
//
// To add a new domain (e.g., lyrics):
//
//  1. Create a new sub-package: internal/database/lyrics/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Map driver errors onto the database sentinels
//  5. Add compile-time interface check where a consumer interface exists
package database
