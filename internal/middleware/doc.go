// Package middleware provides HTTP middleware for the Raid Ledger API.
//
// The middleware package contains reusable middleware components for
// authentication, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - RateLimit: fixed-window request budget per user/IP
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Authentication
//
// The auth middleware validates bearer tokens and stores the caller's
// identity on the request context. After authentication, handlers can
// access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// OptionalAuth does the same but lets unauthenticated requests through.
//
// # Rate Limiting
//
// Counters live in Redis so all replicas share one budget per caller.
// When the store is down the limiter fails open rather than refusing
// traffic.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetUserEmail(ctx): Returns authenticated user email
//   - GetClaims(ctx): Returns parsed token claims
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
