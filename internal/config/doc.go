// Package config manages application configuration for the Raid Ledger API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - RedisConfig: Redis connection for rate limiting, caching, cooldowns
//   - JWTConfig: JWT signing and validation settings
//   - RateLimitConfig: per-client request budget
//   - DiscordConfig: bot token for event announcements
//   - GameDataConfig: game catalog upstream endpoint
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	SERVER_ENV           - development, production, or test
//	DB_HOST / DB_PORT    - SurrealDB endpoint
//	DB_NAMESPACE         - Database namespace (default: raidledger)
//	REDIS_ADDR           - Redis endpoint (default: localhost:6379)
//	JWT_PRIVATE_KEY_PATH - RS256 signing key (PEM)
//	JWT_PUBLIC_KEY_PATH  - RS256 validation key (PEM)
//	RATE_LIMIT_REQUESTS  - Requests per window (default: 120)
//	DISCORD_BOT_TOKEN    - Bot token; required in production
//	GAME_DATA_BASE_URL   - Catalog API; required in production
//
// # Validation
//
// Validate aggregates every failure with errors.Join so a misconfigured
// deployment reports all problems at once instead of one per restart.
package config
