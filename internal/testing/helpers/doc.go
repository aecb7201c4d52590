// Package helpers provides test utility functions for the Raid Ledger API.
//
// The helpers package contains common test utilities for assertions,
// pointer creation, and test data manipulation.
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//	flag := helpers.BoolPtr(true)
//
// # JWT Helpers
//
// Generate test JWT tokens:
//
//	jh := helpers.NewJWTHelper(t)
//	token := jh.GenerateToken(user)
//	expired := jh.GenerateExpiredToken(user)
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertRecordExists(t, db, "event", "event:123")
//	helpers.AssertRecordNotExists(t, db, "signup", "signup:456")
//
// # Request Building
//
// Build authenticated requests against handlers:
//
//	req := helpers.NewRequest(t, "POST", "/v1/events").
//	    WithBody(body).
//	    WithAuth(jh, user).
//	    Build()
package helpers
