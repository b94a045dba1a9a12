// Package http implements the HTTP request handlers for the market feed
// service. It is a thin layer between transport and the service packages:
// handlers parse and validate input, delegate to services, and translate
// service errors into RFC 7807 Problem Details responses.
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Handlers
//
//   - CardsHandler: the card list (GET /api/cards) and the per-client
//     watchlist (GET/PUT/DELETE /api/watchlist)
//   - SnapshotHandler: the raw fixed-universe snapshot document and a
//     manual refresh trigger
//   - HealthHandler: health, readiness, liveness and version endpoints
//
// # Error Handling
//
// All errors follow the RFC 7807 Problem Details format:
//
//	{
//	    "type": "/errors/snapshot/unavailable",
//	    "title": "Snapshot Unavailable",
//	    "status": 503,
//	    "detail": "No market snapshot has been built yet. Please retry shortly.",
//	    "instance": "/api/cards"
//	}
//
// # Testing
//
// Handlers are tested with httptest against mock service implementations.
package http
