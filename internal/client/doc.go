// Package client implements the HTTP clients for Raid Ledger's upstream
// services: the third-party game catalog and the Discord REST API.
//
// Both clients share a retry layer (doWithRetry) that rebuilds the
// request per attempt and backs off exponentially with jitter on
// network errors and retryable statuses (429, 5xx). Other non-2xx
// responses fail immediately.
//
// # Game catalog
//
// GameDataClient additionally wraps its calls in a circuit breaker.
// The catalog is a convenience lookup, not a source of truth, so when
// the upstream is unhealthy the breaker opens and callers fail fast
// instead of queueing behind a dead dependency.
//
// # Discord
//
// DiscordClient posts announcement embeds to a channel using a bot
// token. It holds no gateway connection; every announcement is a
// single REST call.
package client
