package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// CharacterRepository handles character data access
type CharacterRepository struct {
	db database.Database
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db database.Database) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create creates a new character
func (r *CharacterRepository) Create(ctx context.Context, char *model.Character) error {
	query := `
		CREATE character CONTENT {
			user_id: type::record($user_id),
			game: $game,
			name: $name,
			class: $class,
			role: $role,
			level: IF $level IS NOT NULL THEN $level ELSE NONE END,
			item_level: IF $item_level IS NOT NULL THEN $item_level ELSE NONE END,
			is_main: $is_main,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user_id":    char.UserID,
		"game":       char.Game,
		"name":       char.Name,
		"class":      char.Class,
		"role":       string(char.Role),
		"level":      ptrIntToNone(char.Level),
		"item_level": ptrIntToNone(char.ItemLevel),
		"is_main":    char.IsMain,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: character name already taken for this game", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	char.ID = created.ID
	char.CreatedOn = created.CreatedOn
	char.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a character by ID
func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*model.Character, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	char, err := parseCharacterResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return char, nil
}

// ListByUser returns the user's characters, mains first. Pass an empty
// game to list across all games.
func (r *CharacterRepository) ListByUser(ctx context.Context, userID, game string) ([]*model.Character, error) {
	query := `
		SELECT * FROM character
		WHERE user_id = type::record($user_id)
	`
	vars := map[string]interface{}{"user_id": userID}

	if game != "" {
		query += ` AND game = $game`
		vars["game"] = game
	}

	query += ` ORDER BY is_main DESC, name ASC`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseCharactersResult(result)
}

// Update applies a partial update and returns the result
func (r *CharacterRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Character, error) {
	query := `UPDATE type::record($id) SET updated_on = time::now()`
	vars := map[string]interface{}{"id": id}

	for key, value := range updates {
		if value == nil {
			query += ", " + key + " = NONE"
			continue
		}
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseCharacterResult(result)
}

// Delete removes a character
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// CountByUserGame counts the user's characters for one game
func (r *CharacterRepository) CountByUserGame(ctx context.Context, userID, game string) (int, error) {
	query := `
		SELECT count() AS count FROM character
		WHERE user_id = type::record($user_id) AND game = $game
		GROUP ALL
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"game":    game,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// CountOthersInGame counts the user's characters for a game excluding one.
// Used to block deleting a main while alternates remain.
func (r *CharacterRepository) CountOthersInGame(ctx context.Context, userID, game, excludeID string) (int, error) {
	query := `
		SELECT count() AS count FROM character
		WHERE user_id = type::record($user_id)
			AND game = $game
			AND id != type::record($exclude_id)
		GROUP ALL
	`
	vars := map[string]interface{}{
		"user_id":    userID,
		"game":       game,
		"exclude_id": excludeID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// PromoteMain atomically demotes the current main for the game and
// promotes the given character.
func (r *CharacterRepository) PromoteMain(ctx context.Context, userID, game, characterID string) error {
	batch := database.NewAtomicBatch()

	batch.Add(`
		UPDATE character
		SET is_main = false, updated_on = time::now()
		WHERE user_id = type::record($user_id) AND game = $game AND is_main = true
	`, map[string]interface{}{
		"user_id": userID,
		"game":    game,
	})

	batch.Add(`
		UPDATE type::record($id)
		SET is_main = true, updated_on = time::now()
	`, map[string]interface{}{
		"id": characterID,
	})

	return batch.Execute(ctx, r.db)
}

func parseCharacterResult(result interface{}) (*model.Character, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return characterFromMap(data)
}

func parseCharactersResult(result interface{}) ([]*model.Character, error) {
	items, ok := extractQueryResults(result)
	if !ok {
		return []*model.Character{}, nil
	}

	chars := make([]*model.Character, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		char, err := characterFromMap(data)
		if err != nil {
			return nil, err
		}
		chars = append(chars, char)
	}
	return chars, nil
}

func characterFromMap(data map[string]interface{}) (*model.Character, error) {
	char := &model.Character{
		ID:        extractIDValue(data["id"]),
		UserID:    extractIDValue(data["user_id"]),
		Game:      getString(data, "game"),
		Name:      getString(data, "name"),
		Class:     getString(data, "class"),
		Role:      model.CharacterRole(getString(data, "role")),
		Level:     getIntPtr(data, "level"),
		ItemLevel: getIntPtr(data, "item_level"),
		IsMain:    getBool(data, "is_main"),
	}

	if t := getTime(data, "created_on"); t != nil {
		char.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		char.UpdatedOn = *t
	}

	return char, nil
}
