package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrUsernameTooShort   = errors.New("username must be at least 2 characters")
	ErrUsernameTooLong    = errors.New("username exceeds maximum length")
)

// ===== Profile Errors =====
var (
	ErrTimezoneTooLong  = errors.New("timezone exceeds maximum length")
	ErrDiscordIDTooLong = errors.New("discord id exceeds maximum length")
	ErrDiscordIDLinked  = errors.New("discord account already linked to another user")
)

// ===== Preference Errors =====
var (
	ErrPreferenceNotFound     = errors.New("preference not found")
	ErrPreferenceKeyRequired  = errors.New("preference key is required")
	ErrPreferenceKeyInvalid   = errors.New("preference key may contain lowercase letters, digits, '_', '.' and '-' only")
	ErrPreferenceKeyTooLong   = errors.New("preference key exceeds maximum length")
	ErrPreferenceValueTooLong = errors.New("preference value exceeds maximum length")
)

// ===== Character Errors =====
var (
	ErrCharacterNotFound     = errors.New("character not found")
	ErrCharacterNameRequired = errors.New("character name is required")
	ErrCharacterNameTooLong  = errors.New("character name exceeds maximum length")
	ErrClassTooLong          = errors.New("class exceeds maximum length")
	ErrGameRequired          = errors.New("game is required")
	ErrGameSlugTooLong       = errors.New("game slug exceeds maximum length")
	ErrInvalidRole           = errors.New("invalid character role")
	ErrInvalidLevel          = errors.New("level out of range")
	ErrMaxCharactersReached  = errors.New("maximum characters for this game reached")
	ErrMainHasAlternates     = errors.New("cannot delete main while alternates exist")
	ErrCharacterWrongGame    = errors.New("character belongs to a different game")
	ErrCharacterNotOwned     = errors.New("character belongs to another user")
)

// ===== Event Errors =====
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrNotOrganizer         = errors.New("not the event organizer")
	ErrEventNotEditable     = errors.New("event can no longer be edited")
	ErrEventTitleRequired   = errors.New("event title is required")
	ErrEventTitleTooLong    = errors.New("event title exceeds maximum length")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrInvalidTimeFormat    = errors.New("invalid time format")
	ErrInvalidTimeRange     = errors.New("end time must be after start time")
	ErrEventTooLong         = errors.New("event exceeds maximum duration")
	ErrInvalidAttendeeLimit = errors.New("attendee limit out of range")
)

// ===== Signup Errors =====
var (
	ErrSignupNotFound  = errors.New("signup not found")
	ErrAlreadySignedUp = errors.New("already signed up for this event")
	ErrSignupsClosed   = errors.New("event is not open for signups")
	ErrNoteTooLong     = errors.New("note exceeds maximum length")
)

// ===== Game Time Errors =====
var (
	ErrOverrideNotFound      = errors.New("override not found")
	ErrAbsenceNotFound       = errors.New("absence not found")
	ErrAbsenceOverlap        = errors.New("absence overlaps an existing range")
	ErrAbsenceTooLong        = errors.New("absence exceeds maximum length")
	ErrReasonTooLong         = errors.New("reason exceeds maximum length")
	ErrInvalidDate           = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange      = errors.New("end date must not be before start date")
	ErrDateWindowTooWide     = errors.New("date window exceeds maximum span")
	ErrInvalidSlot           = errors.New("slot day or hour out of range")
	ErrDuplicateSlot         = errors.New("duplicate slot in submitted set")
	ErrInvalidSlotStatus     = errors.New("invalid slot status")
	ErrInvalidOverrideStatus = errors.New("invalid override status")
	ErrEmptyCells            = errors.New("cell list must not be empty")
	ErrNotAMonday            = errors.New("week start must be a Monday")
)

// ===== Integration Errors =====
var (
	ErrGameDataUnavailable = errors.New("game data service unavailable")
	ErrDiscordUnavailable  = errors.New("discord service unavailable")
	ErrAnnounceCooldown    = errors.New("event was announced recently")
	ErrChannelMissing      = errors.New("event has no announcement channel")
	ErrSearchTooLong       = errors.New("search term exceeds maximum length")
)
