// Package service implements the business logic layer for the Raid
// Ledger API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level
// variables in errors.go:
//
//	var (
//	    ErrEventNotFound = errors.New("event not found")
//	    ErrNotOrganizer  = errors.New("only the organizer can modify this event")
//	)
//
// Handlers map these to problem-details responses. Ownership failures
// on single-owner resources surface as not-found errors so foreign ids
// are indistinguishable from absent ones; organizer checks on events
// surface as forbidden.
//
// # Example Usage
//
//	service := NewEventService(EventServiceConfig{
//	    EventRepo:  eventRepository,
//	    SignupRepo: signupRepository,
//	})
//	event, err := service.CreateEvent(ctx, userID, &model.CreateEventRequest{
//	    Title:    "Weekly raid",
//	    Game:     "wow",
//	    StartsAt: "2025-03-07T19:00:00Z",
//	    EndsAt:   "2025-03-07T22:00:00Z",
//	})
package service
