package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			email: $email,
			username: $username,
			hash: IF $hash IS NOT NULL THEN $hash ELSE NONE END,
			timezone: $timezone,
			discord_id: IF $discord_id IS NOT NULL THEN $discord_id ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"email":      user.Email,
		"username":   user.Username,
		"hash":       ptrToNone(user.Hash),
		"timezone":   user.Timezone,
		"discord_id": ptrToNone(user.DiscordID),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetByDiscordID retrieves a user by linked Discord account
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	query := `SELECT * FROM user WHERE discord_id = $discord_id LIMIT 1`
	vars := map[string]interface{}{"discord_id": discordID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the result.
// A nil value in updates clears the field (discord_id unlink).
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) (*model.User, error) {
	query := `UPDATE type::record($id) SET updated_on = time::now()`
	vars := map[string]interface{}{"id": userID}

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
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: discord account already linked", database.ErrDuplicate)
		}
		return nil, err
	}

	return parseUserResult(result)
}

// TouchLogin records a successful login
func (r *UserRepository) TouchLogin(ctx context.Context, userID string) error {
	query := `UPDATE type::record($id) SET login_on = time::now()`
	vars := map[string]interface{}{"id": userID}

	return r.db.Execute(ctx, query, vars)
}

func parseUserResult(result interface{}) (*model.User, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}

	// Extract hash before the JSON round trip (User.Hash has json:"-")
	var hash *string
	if h, ok := data["hash"].(string); ok {
		hash = &h
	}

	var user model.User
	if err := remarshal(data, &user); err != nil {
		return nil, err
	}
	user.Hash = hash

	if t := getTime(data, "created_on"); t != nil {
		user.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		user.UpdatedOn = *t
	}
	user.LoginOn = getTime(data, "login_on")

	return &user, nil
}
