// Package fixtures provides test data factories for the Raid Ledger API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(testDB)
//
// # Creating Test Data
//
// Factory methods create domain entities:
//
//	user := f.CreateUser(t)                  // Default user
//	char := f.CreateCharacter(t, user)       // Character owned by user
//	event := f.CreateEvent(t, user)          // Event organized by user
//	f.CreateSignup(t, event, user, char)     // Confirmed signup
//
// # Customization
//
// Use option functions for customization:
//
//	char := f.CreateCharacter(t, user, WithRole(model.RoleTank), AsMain())
//	event := f.CreateEvent(t, user, WithCapacity(10))
//	f.CreateSignup(t, event, user, char, Waitlisted())
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	user1 := f.CreateUser(t) // user_abc123
//	user2 := f.CreateUser(t) // user_def456
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
