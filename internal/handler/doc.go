// Package handler provides HTTP request handlers for the Raid Ledger API.
//
// The handler package contains all HTTP endpoint implementations organized by domain.
// Each handler struct encapsulates the dependencies needed to serve requests for a
// specific feature area (auth, characters, events, signups, game time, games).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the services it depends on
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Service errors go through MapServiceError to RFC 9457 Problem Details
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: Paginated list of resources
//   - WriteJSON: Raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Most handlers require authentication via JWT bearer tokens. The auth
// middleware extracts the user ID and makes it available via
// middleware.GetUserID(r.Context()).
//
// # Example Usage
//
//	handler := NewEventHandler(eventService)
//	mux.Handle("GET /v1/events", authMiddleware(http.HandlerFunc(handler.List)))
//	mux.Handle("POST /v1/events", authMiddleware(http.HandlerFunc(handler.Create)))
package handler
