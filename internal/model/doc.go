// Package model defines domain entities and data structures for the Raid Ledger API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Player account with local credentials and an optional Discord link
//   - Character: Playable character owned by a user, one main per game
//   - Event: Scheduled guild activity with a bounded UTC time range
//   - Signup: A user's commitment to attend an event with a character
//   - TemplateSlot / SlotOverride / AbsenceRange: the game-time planner rows
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Character struct {
//	    ID     string `json:"id"`
//	    Name   string `json:"name"`
//	    IsMain bool   `json:"is_main"`
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    MaxEventTitleLength = 100
//	    SignupPreviewSize   = 6
//	    MaxAbsenceDays      = 90
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
