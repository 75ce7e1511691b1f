// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
//   - UserRepository: user data access for the credential policy
//     (internal/auth/service.go)
//   - ActivityCleaner: retention sweeps over the observability tables
//     (internal/tasks/cleanup_activity.go)
//   - StaleRecommendationsCleaner: expiry sweep over the recommendations
//     cache (internal/tasks/cleanup_recommendations.go)
//   - Enqueuer: task submission for the maintenance scheduler
//     (internal/scheduler/maintenance.go)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., lyrics):
//
//  1. Create sub-package: internal/database/lyrics/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Map driver errors onto the database sentinels
//
//  4. Where a consumer interface exists, add a compile-time check:
//
//     var _ LyricsStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
