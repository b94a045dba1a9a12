// Package services implements the business logic layer of the TW Pulse
// application. It provides a clean separation between HTTP handlers and the
// ingestion pipeline, ensuring that business rules are centralized and
// testable.
//
// # Available Services
//
//	- SnapshotService: owns the cached market snapshot and its refresh cycle
//	- CardService: merges the snapshot with per-client watchlists into card lists
//	- HealthService: provides system health checks
//
// Services take their dependencies by injection and a *slog.Logger for
// context-aware logging; blocking operations accept a context.Context.
package services
