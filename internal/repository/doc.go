// Package repository implements the data access layer for the Raid Ledger API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles CRUD operations for a specific domain entity.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Update, Delete, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//   - Single-record lookups return (nil, nil) when nothing matches
//
// # Database Connection
//
// Repositories accept a database.Database interface, allowing:
//
//   - Connection pooling and management at a higher level
//   - Transaction support when needed
//   - Easy testing with mock implementations
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//   - Record links stored on signup and planner rows so roster and
//     composite-view reads resolve in one nested query
//   - AtomicBatch / TxBuilder transactions for multi-row invariants
//     (main-character swaps, waitlist promotion, template replacement)
//
// # Example Usage
//
//	repo := NewEventRepository(db)
//	event, err := repo.GetByID(ctx, "event:abc123")
//	if err != nil {
//	    return err
//	}
//	if event == nil {
//	    // Handle not found
//	}
package repository
