package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/cantata-audio/cantata/internal/auth"
	"github.com/cantata-audio/cantata/internal/database/activity"
	"github.com/cantata-audio/cantata/internal/database/recommendations"
	"github.com/cantata-audio/cantata/internal/database/users"
	"github.com/cantata-audio/cantata/internal/scheduler"
	"github.com/cantata-audio/cantata/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// UserRepository implementations
var _ auth.UserRepository = (*users.Repository)(nil)

// =============================================================================
// Maintenance
// =============================================================================

// Cleaner implementations
var _ tasks.ActivityCleaner = (*activity.Repository)(nil)
var _ tasks.StaleRecommendationsCleaner = (*recommendations.Repository)(nil)

// Enqueuer implementations
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
