package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/forgo/raidledger/api/internal/service"
)

func TestMapServiceError_StatusSurface(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not organizer", service.ErrNotOrganizer, http.StatusForbidden},

		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"preference not found", service.ErrPreferenceNotFound, http.StatusNotFound},
		{"character not found", service.ErrCharacterNotFound, http.StatusNotFound},
		{"event not found", service.ErrEventNotFound, http.StatusNotFound},
		{"signup not found", service.ErrSignupNotFound, http.StatusNotFound},
		{"override not found", service.ErrOverrideNotFound, http.StatusNotFound},
		{"absence not found", service.ErrAbsenceNotFound, http.StatusNotFound},

		{"email taken", service.ErrEmailAlreadyExists, http.StatusConflict},
		{"discord id linked", service.ErrDiscordIDLinked, http.StatusConflict},
		{"already signed up", service.ErrAlreadySignedUp, http.StatusConflict},
		{"absence overlap", service.ErrAbsenceOverlap, http.StatusConflict},
		{"signups closed", service.ErrSignupsClosed, http.StatusConflict},
		{"event not editable", service.ErrEventNotEditable, http.StatusConflict},
		{"main has alternates", service.ErrMainHasAlternates, http.StatusConflict},
		{"character not owned", service.ErrCharacterNotOwned, http.StatusConflict},
		{"character wrong game", service.ErrCharacterWrongGame, http.StatusConflict},

		{"invalid email", service.ErrInvalidEmail, http.StatusUnprocessableEntity},
		{"password too short", service.ErrPasswordTooShort, http.StatusUnprocessableEntity},
		{"username too long", service.ErrUsernameTooLong, http.StatusUnprocessableEntity},
		{"preference key too long", service.ErrPreferenceKeyTooLong, http.StatusUnprocessableEntity},
		{"preference key invalid", service.ErrPreferenceKeyInvalid, http.StatusUnprocessableEntity},
		{"invalid role", service.ErrInvalidRole, http.StatusUnprocessableEntity},
		{"event too long", service.ErrEventTooLong, http.StatusUnprocessableEntity},
		{"channel missing", service.ErrChannelMissing, http.StatusUnprocessableEntity},
		{"note too long", service.ErrNoteTooLong, http.StatusUnprocessableEntity},
		{"invalid slot", service.ErrInvalidSlot, http.StatusUnprocessableEntity},
		{"search too long", service.ErrSearchTooLong, http.StatusUnprocessableEntity},
		{"character cap", service.ErrMaxCharactersReached, http.StatusUnprocessableEntity},

		{"invalid date", service.ErrInvalidDate, http.StatusBadRequest},
		{"invalid date range", service.ErrInvalidDateRange, http.StatusBadRequest},
		{"window too wide", service.ErrDateWindowTooWide, http.StatusBadRequest},
		{"not a monday", service.ErrNotAMonday, http.StatusBadRequest},
		{"empty override cells", service.ErrEmptyCells, http.StatusBadRequest},

		{"announce cooldown", service.ErrAnnounceCooldown, http.StatusTooManyRequests},

		{"game data down", service.ErrGameDataUnavailable, http.StatusBadGateway},
		{"discord down", service.ErrDiscordUnavailable, http.StatusBadGateway},

		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			problem := MapServiceError(tt.err)
			if problem.Status != tt.status {
				t.Errorf("MapServiceError(%v): expected status %d, got %d", tt.err, tt.status, problem.Status)
			}
		})
	}
}

func TestMapServiceError_NilError(t *testing.T) {
	t.Parallel()
	if problem := MapServiceError(nil); problem != nil {
		t.Errorf("expected nil for nil error, got %+v", problem)
	}
}

// Wrapped errors still map through errors.Is
func TestMapServiceError_WrappedSentinel(t *testing.T) {
	t.Parallel()
	wrapped := errors.Join(errors.New("context"), service.ErrEventNotFound)
	problem := MapServiceError(wrapped)
	if problem.Status != http.StatusNotFound {
		t.Errorf("expected wrapped sentinel to map to 404, got %d", problem.Status)
	}
}

// Internal errors never leak detail to the client
func TestMapServiceError_InternalHidesDetail(t *testing.T) {
	t.Parallel()
	problem := MapServiceError(errors.New("pq: connection refused on 10.0.0.3"))
	if problem.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", problem.Status)
	}
	if problem.Detail != "" && problem.Detail != "An unexpected error occurred" {
		t.Errorf("internal error detail should not leak, got %q", problem.Detail)
	}
}

func TestMapServiceErrorWithContext_NamesFailedOperation(t *testing.T) {
	t.Parallel()

	problem := MapServiceErrorWithContext(errors.New("tx aborted"), "template replace")
	if problem.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", problem.Status)
	}
	if problem.Detail != "template replace: an unexpected error occurred" {
		t.Errorf("expected operation in detail, got %q", problem.Detail)
	}

	// Non-500 mappings keep their own detail
	problem = MapServiceErrorWithContext(service.ErrEventNotFound, "composite view")
	if problem.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", problem.Status)
	}
	if problem.Detail == "composite view: an unexpected error occurred" {
		t.Error("expected 404 detail untouched by operation context")
	}
}
