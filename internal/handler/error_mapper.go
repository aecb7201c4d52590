package handler

import (
	"errors"
	"net/http"

	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Authentication Errors → 401 =====
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotOrganizer):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	// Foreign-owned resources surface as not found so existence never
	// leaks across accounts.
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrPreferenceNotFound):
		return model.NewNotFoundError("preference")
	case errors.Is(err, service.ErrCharacterNotFound):
		return model.NewNotFoundError("character")
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrSignupNotFound):
		return model.NewNotFoundError("signup")
	case errors.Is(err, service.ErrOverrideNotFound):
		return model.NewNotFoundError("override")
	case errors.Is(err, service.ErrAbsenceNotFound):
		return model.NewNotFoundError("absence")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrDiscordIDLinked),
		errors.Is(err, service.ErrAlreadySignedUp),
		errors.Is(err, service.ErrAbsenceOverlap):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrSignupsClosed),
		errors.Is(err, service.ErrEventNotEditable),
		errors.Is(err, service.ErrMainHasAlternates):
		return model.NewConflictError(err.Error())
	// Signing up with a character you don't own, or one rolled for a
	// different game, conflicts with the event rather than failing
	// field validation.
	case errors.Is(err, service.ErrCharacterNotOwned),
		errors.Is(err, service.ErrCharacterWrongGame):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})

	case errors.Is(err, service.ErrUsernameTooShort),
		errors.Is(err, service.ErrUsernameTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "username", Message: err.Error()}})

	case errors.Is(err, service.ErrTimezoneTooLong),
		errors.Is(err, service.ErrDiscordIDTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "profile", Message: err.Error()}})

	case errors.Is(err, service.ErrPreferenceKeyRequired),
		errors.Is(err, service.ErrPreferenceKeyInvalid),
		errors.Is(err, service.ErrPreferenceKeyTooLong),
		errors.Is(err, service.ErrPreferenceValueTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "preference", Message: err.Error()}})

	case errors.Is(err, service.ErrCharacterNameRequired),
		errors.Is(err, service.ErrCharacterNameTooLong),
		errors.Is(err, service.ErrClassTooLong),
		errors.Is(err, service.ErrGameRequired),
		errors.Is(err, service.ErrGameSlugTooLong),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidLevel):
		return model.NewValidationError([]model.FieldError{{Field: "character", Message: err.Error()}})

	case errors.Is(err, service.ErrEventTitleRequired),
		errors.Is(err, service.ErrEventTitleTooLong),
		errors.Is(err, service.ErrDescriptionTooLong),
		errors.Is(err, service.ErrInvalidTimeFormat),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrEventTooLong),
		errors.Is(err, service.ErrInvalidAttendeeLimit):
		return model.NewValidationError([]model.FieldError{{Field: "event", Message: err.Error()}})

	case errors.Is(err, service.ErrChannelMissing):
		return model.NewValidationError([]model.FieldError{{Field: "channel_id", Message: err.Error()}})

	case errors.Is(err, service.ErrNoteTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "note", Message: err.Error()}})

	case errors.Is(err, service.ErrInvalidSlot),
		errors.Is(err, service.ErrDuplicateSlot),
		errors.Is(err, service.ErrInvalidSlotStatus),
		errors.Is(err, service.ErrInvalidOverrideStatus):
		return model.NewValidationError([]model.FieldError{{Field: "slots", Message: err.Error()}})

	case errors.Is(err, service.ErrAbsenceTooLong),
		errors.Is(err, service.ErrReasonTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "absence", Message: err.Error()}})

	case errors.Is(err, service.ErrSearchTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "search", Message: err.Error()}})

	// Limit/capacity errors → 422
	case errors.Is(err, service.ErrMaxCharactersReached):
		return model.NewLimitExceededError("characters per game", model.MaxCharactersPerGame, model.MaxCharactersPerGame)

	// ===== Malformed Parameters → 400 =====
	// Date-shaped inputs arrive as query and path parameters. An empty
	// override cell list is a malformed request too: deleting the
	// override is what DELETE is for.
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrDateWindowTooWide),
		errors.Is(err, service.ErrNotAMonday),
		errors.Is(err, service.ErrEmptyCells):
		return model.NewBadRequestError(err.Error())

	// ===== Cooldowns → 429 =====
	case errors.Is(err, service.ErrAnnounceCooldown):
		return &model.ProblemDetails{
			Type:   "https://raidledger.forgo.software/errors/rate-limited",
			Title:  "Too Many Requests",
			Status: http.StatusTooManyRequests,
			Detail: err.Error(),
		}

	// ===== Upstream Errors → 502 =====
	case errors.Is(err, service.ErrGameDataUnavailable),
		errors.Is(err, service.ErrDiscordUnavailable):
		return model.NewBadGatewayError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
