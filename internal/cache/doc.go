// Package cache provides the Redis-backed shared state for the Raid Ledger API.
//
// Rate-limit counters, the game-catalog read-through cache, and announce
// cooldown flags all live in Redis so that every API replica sees the
// same values. Nothing here is a source of truth; losing the store
// degrades (limits reset, caches refill) without data loss.
//
// # Operations
//
// The client exposes exactly what the callers need:
//
//   - IncrWindow: fixed-window counter with TTL set on first increment
//   - GetJSON / SetJSON: cache-aside entries with a TTL
//   - SetNX: one-shot cooldown flags
//
// # Connection
//
//	c := cache.New(cache.Config{Addr: "localhost:6379"})
//	if err := c.Connect(ctx); err != nil { ... }
//	defer c.Close()
//
// Connect retries with exponential backoff because Redis frequently
// starts after the API in compose environments.
package cache
