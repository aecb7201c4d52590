package service

import (
	"context"
	"strings"

	"github.com/forgo/raidledger/api/internal/model"
)

// CharacterRepository defines the interface for character storage
type CharacterRepository interface {
	Create(ctx context.Context, char *model.Character) error
	GetByID(ctx context.Context, id string) (*model.Character, error)
	ListByUser(ctx context.Context, userID, game string) ([]*model.Character, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Character, error)
	Delete(ctx context.Context, id string) error
	CountByUserGame(ctx context.Context, userID, game string) (int, error)
	CountOthersInGame(ctx context.Context, userID, game, excludeID string) (int, error)
	PromoteMain(ctx context.Context, userID, game, characterID string) error
}

// CharacterService handles character roster operations
type CharacterService struct {
	charRepo CharacterRepository
}

// CharacterServiceConfig holds configuration for the character service
type CharacterServiceConfig struct {
	CharRepo CharacterRepository
}

// NewCharacterService creates a new character service
func NewCharacterService(cfg CharacterServiceConfig) *CharacterService {
	return &CharacterService{
		charRepo: cfg.CharRepo,
	}
}

// ListCharacters returns the user's characters, optionally filtered by game
func (s *CharacterService) ListCharacters(ctx context.Context, userID, game string) ([]*model.Character, error) {
	return s.charRepo.ListByUser(ctx, userID, strings.TrimSpace(game))
}

// CreateCharacter creates a character. The first character for a game
// becomes that game's main automatically.
func (s *CharacterService) CreateCharacter(ctx context.Context, userID string, req *model.CreateCharacterRequest) (*model.Character, error) {
	game := strings.TrimSpace(req.Game)
	if game == "" {
		return nil, ErrGameRequired
	}
	if len(game) > model.MaxGameSlugLength {
		return nil, ErrGameSlugTooLong
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCharacterNameRequired
	}
	if len(name) > model.MaxCharacterNameLength {
		return nil, ErrCharacterNameTooLong
	}

	class := strings.TrimSpace(req.Class)
	if len(class) > model.MaxClassLength {
		return nil, ErrClassTooLong
	}

	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	if err := validateLevels(req.Level, req.ItemLevel); err != nil {
		return nil, err
	}

	count, err := s.charRepo.CountByUserGame(ctx, userID, game)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxCharactersPerGame {
		return nil, ErrMaxCharactersReached
	}

	char := &model.Character{
		UserID:    userID,
		Game:      game,
		Name:      name,
		Class:     class,
		Role:      model.CharacterRole(req.Role),
		Level:     req.Level,
		ItemLevel: req.ItemLevel,
		IsMain:    count == 0,
	}

	if err := s.charRepo.Create(ctx, char); err != nil {
		return nil, err
	}
	return char, nil
}

// GetCharacter retrieves one of the user's characters. Characters owned
// by other users look like they don't exist.
func (s *CharacterService) GetCharacter(ctx context.Context, userID, characterID string) (*model.Character, error) {
	char, err := s.charRepo.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if char == nil || char.UserID != userID {
		return nil, ErrCharacterNotFound
	}
	return char, nil
}

// UpdateCharacter applies a partial update to one of the user's characters
func (s *CharacterService) UpdateCharacter(ctx context.Context, userID, characterID string, req *model.UpdateCharacterRequest) (*model.Character, error) {
	char, err := s.GetCharacter(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrCharacterNameRequired
		}
		if len(name) > model.MaxCharacterNameLength {
			return nil, ErrCharacterNameTooLong
		}
		updates["name"] = name
	}

	if req.Class != nil {
		class := strings.TrimSpace(*req.Class)
		if len(class) > model.MaxClassLength {
			return nil, ErrClassTooLong
		}
		updates["class"] = class
	}

	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *req.Role
	}

	if err := validateLevels(req.Level, req.ItemLevel); err != nil {
		return nil, err
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.ItemLevel != nil {
		updates["item_level"] = *req.ItemLevel
	}

	if len(updates) == 0 {
		return char, nil
	}

	return s.charRepo.Update(ctx, characterID, updates)
}

// DeleteCharacter removes one of the user's characters. The main cannot
// be deleted while alternates for the same game remain.
func (s *CharacterService) DeleteCharacter(ctx context.Context, userID, characterID string) error {
	char, err := s.GetCharacter(ctx, userID, characterID)
	if err != nil {
		return err
	}

	if char.IsMain {
		others, err := s.charRepo.CountOthersInGame(ctx, userID, char.Game, characterID)
		if err != nil {
			return err
		}
		if others > 0 {
			return ErrMainHasAlternates
		}
	}

	return s.charRepo.Delete(ctx, characterID)
}

// PromoteMain makes a character its game's main. Promoting the current
// main is a no-op.
func (s *CharacterService) PromoteMain(ctx context.Context, userID, characterID string) (*model.Character, error) {
	char, err := s.GetCharacter(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}

	if char.IsMain {
		return char, nil
	}

	if err := s.charRepo.PromoteMain(ctx, userID, char.Game, characterID); err != nil {
		return nil, err
	}

	char.IsMain = true
	return char, nil
}

func validateLevels(level, itemLevel *int) error {
	if level != nil && (*level < model.MinCharacterLevel || *level > model.MaxCharacterLevel) {
		return ErrInvalidLevel
	}
	if itemLevel != nil && *itemLevel < 0 {
		return ErrInvalidLevel
	}
	return nil
}
