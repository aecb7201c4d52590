package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// SignupRepository defines the interface for signup storage
type SignupRepository interface {
	Create(ctx context.Context, entry *model.RosterEntry) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.RosterEntry, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.RosterEntry, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	ListRanked(ctx context.Context, eventID string, limit int) ([]*model.RosterEntry, error)
	Withdraw(ctx context.Context, id string) error
	WithdrawAndPromote(ctx context.Context, id, eventID string) error
	WithdrawForEvent(ctx context.Context, eventID string) error
	ListCommittedEvents(ctx context.Context, userID string, from, to time.Time) ([]*model.Event, error)
}

// SignupService handles event signup operations
type SignupService struct {
	signupRepo SignupRepository
	eventRepo  EventRepository
	charRepo   CharacterRepository
	userRepo   UserRepository
}

// SignupServiceConfig holds configuration for the signup service
type SignupServiceConfig struct {
	SignupRepo SignupRepository
	EventRepo  EventRepository
	CharRepo   CharacterRepository
	UserRepo   UserRepository
}

// NewSignupService creates a new signup service
func NewSignupService(cfg SignupServiceConfig) *SignupService {
	return &SignupService{
		signupRepo: cfg.SignupRepo,
		eventRepo:  cfg.EventRepo,
		charRepo:   cfg.CharRepo,
		userRepo:   cfg.UserRepo,
	}
}

// ListRoster returns the full ranked roster for an event
func (s *SignupService) ListRoster(ctx context.Context, userID, eventID string) ([]*model.RosterEntry, error) {
	if _, err := s.visibleEvent(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return s.signupRepo.ListRanked(ctx, eventID, 0)
}

// CreateSignup signs the user up for an event with one of their
// characters. At capacity the signup lands on the waitlist.
func (s *SignupService) CreateSignup(ctx context.Context, userID, eventID string, req *model.CreateSignupRequest) (*model.RosterEntry, error) {
	event, err := s.visibleEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventStatusScheduled {
		return nil, ErrSignupsClosed
	}

	existing, err := s.signupRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySignedUp
	}

	char, err := s.charRepo.GetByID(ctx, req.CharacterID)
	if err != nil {
		return nil, err
	}
	if char == nil {
		return nil, ErrCharacterNotFound
	}
	if char.UserID != userID {
		return nil, ErrCharacterNotOwned
	}
	if char.Game != event.Game {
		return nil, ErrCharacterWrongGame
	}

	role := char.Role
	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return nil, ErrInvalidRole
		}
		role = model.CharacterRole(req.Role)
	}

	var note *string
	if req.Note != nil {
		trimmed := strings.TrimSpace(*req.Note)
		if len(trimmed) > model.MaxSignupNoteLength {
			return nil, ErrNoteTooLong
		}
		if trimmed != "" {
			note = &trimmed
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	status := model.SignupStatusConfirmed
	if event.MaxAttendees != nil {
		confirmed, err := s.signupRepo.CountConfirmed(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if confirmed >= *event.MaxAttendees {
			status = model.SignupStatusWaitlisted
		}
	}

	entry := &model.RosterEntry{
		Signup: &model.Signup{
			EventID:     eventID,
			UserID:      userID,
			CharacterID: char.ID,
			Role:        role,
			Note:        note,
			Status:      status,
		},
		Username:       user.Username,
		CharacterName:  char.Name,
		CharacterClass: char.Class,
	}

	if err := s.signupRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadySignedUp
		}
		return nil, err
	}
	return entry, nil
}

// UpdateMySignup changes the caller's character, role, or note on an
// existing signup. Status never changes here.
func (s *SignupService) UpdateMySignup(ctx context.Context, userID, eventID string, req *model.UpdateSignupRequest) (*model.RosterEntry, error) {
	event, err := s.visibleEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventStatusScheduled {
		return nil, ErrSignupsClosed
	}

	entry, err := s.signupRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrSignupNotFound
	}

	updates := make(map[string]interface{})

	if req.CharacterID != nil {
		char, err := s.charRepo.GetByID(ctx, *req.CharacterID)
		if err != nil {
			return nil, err
		}
		if char == nil {
			return nil, ErrCharacterNotFound
		}
		if char.UserID != userID {
			return nil, ErrCharacterNotOwned
		}
		if char.Game != event.Game {
			return nil, ErrCharacterWrongGame
		}
		updates["character_id"] = char.ID
		updates["character_name"] = char.Name
		updates["character_class"] = char.Class
	}

	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *req.Role
		updates["role_rank"] = model.RoleRank(model.CharacterRole(*req.Role))
	}

	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if len(note) > model.MaxSignupNoteLength {
			return nil, ErrNoteTooLong
		}
		if note == "" {
			updates["note"] = nil
		} else {
			updates["note"] = note
		}
	}

	if len(updates) == 0 {
		return entry, nil
	}

	return s.signupRepo.Update(ctx, entry.Signup.ID, updates)
}

// WithdrawMySignup withdraws the caller from an event. Withdrawing a
// confirmed signup promotes the earliest waitlisted one atomically.
func (s *SignupService) WithdrawMySignup(ctx context.Context, userID, eventID string) error {
	if _, err := s.visibleEvent(ctx, userID, eventID); err != nil {
		return err
	}

	entry, err := s.signupRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrSignupNotFound
	}

	if entry.Signup.Status == model.SignupStatusConfirmed {
		return s.signupRepo.WithdrawAndPromote(ctx, entry.Signup.ID, eventID)
	}
	return s.signupRepo.Withdraw(ctx, entry.Signup.ID)
}

// visibleEvent loads an event applying draft visibility rules
func (s *SignupService) visibleEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Status == model.EventStatusDraft && event.CreatedBy != userID {
		return nil, ErrEventNotFound
	}
	return event, nil
}
