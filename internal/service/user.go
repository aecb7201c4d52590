package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// Preference keys double as URL path segments, so the alphabet stays
// narrow enough to never need escaping.
var preferenceKeyPattern = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// PreferenceRepository defines the interface for preference storage
type PreferenceRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*model.UserPreference, error)
	Get(ctx context.Context, userID, key string) (*model.UserPreference, error)
	Upsert(ctx context.Context, userID, key, value string) (*model.UserPreference, error)
	Delete(ctx context.Context, userID, key string) error
}

// UserService handles profile and preference operations
type UserService struct {
	userRepo UserRepository
	prefRepo PreferenceRepository
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo UserRepository
	PrefRepo PreferenceRepository
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		userRepo: cfg.UserRepo,
		prefRepo: cfg.PrefRepo,
	}
}

// GetProfile returns the user's account record
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.getUser(ctx, userID)
}

// UpdateProfile applies a partial profile update and returns the
// updated user. Setting discord_id to an empty string clears the link.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateUserRequest) (*model.User, error) {
	updates := make(map[string]interface{})

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		updates["username"] = username
	}

	if req.Timezone != nil {
		timezone := strings.TrimSpace(*req.Timezone)
		if timezone == "" {
			timezone = "UTC"
		}
		if len(timezone) > model.MaxTimezoneLength {
			return nil, ErrTimezoneTooLong
		}
		updates["timezone"] = timezone
	}

	if req.DiscordID != nil {
		discordID := strings.TrimSpace(*req.DiscordID)
		if discordID == "" {
			updates["discord_id"] = nil
		} else {
			if len(discordID) > model.MaxDiscordIDLength {
				return nil, ErrDiscordIDTooLong
			}
			existing, err := s.userRepo.GetByDiscordID(ctx, discordID)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != userID {
				return nil, ErrDiscordIDLinked
			}
			updates["discord_id"] = discordID
		}
	}

	if len(updates) == 0 {
		return s.getUser(ctx, userID)
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDiscordIDLinked
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListPreferences returns all stored preferences for the user
func (s *UserService) ListPreferences(ctx context.Context, userID string) ([]*model.UserPreference, error) {
	return s.prefRepo.ListByUser(ctx, userID)
}

// PutPreference stores a preference value under the given key
func (s *UserService) PutPreference(ctx context.Context, userID, key, value string) (*model.UserPreference, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrPreferenceKeyRequired
	}
	if len(key) > model.MaxPreferenceKeyLength {
		return nil, ErrPreferenceKeyTooLong
	}
	if !preferenceKeyPattern.MatchString(key) {
		return nil, ErrPreferenceKeyInvalid
	}
	if len(value) > model.MaxPreferenceValueLength {
		return nil, ErrPreferenceValueTooLong
	}

	return s.prefRepo.Upsert(ctx, userID, key, value)
}

// DeletePreference removes a stored preference
func (s *UserService) DeletePreference(ctx context.Context, userID, key string) error {
	err := s.prefRepo.Delete(ctx, userID, key)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrPreferenceNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
