package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// PreferenceRepository handles per-user preference data access
type PreferenceRepository struct {
	db database.Database
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db database.Database) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListByUser returns all preferences for a user ordered by key
func (r *PreferenceRepository) ListByUser(ctx context.Context, userID string) ([]*model.UserPreference, error) {
	query := `
		SELECT * FROM user_preference
		WHERE user_id = type::record($user_id)
		ORDER BY key ASC
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parsePreferencesResult(result)
}

// Get retrieves a single preference by key
func (r *PreferenceRepository) Get(ctx context.Context, userID, key string) (*model.UserPreference, error) {
	query := `
		SELECT * FROM user_preference
		WHERE user_id = type::record($user_id) AND key = $key
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"key":     key,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	pref, err := parsePreferenceResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return pref, nil
}

// Upsert sets a preference value, creating the row on first write.
// The unique index on (user_id, key) backstops concurrent first writes.
func (r *PreferenceRepository) Upsert(ctx context.Context, userID, key, value string) (*model.UserPreference, error) {
	updateQuery := `
		UPDATE user_preference
		SET value = $value, updated_on = time::now()
		WHERE user_id = type::record($user_id) AND key = $key
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"key":     key,
		"value":   value,
	}

	result, err := r.db.QueryOne(ctx, updateQuery, vars)
	if err == nil {
		if pref, perr := parsePreferenceResult(result); perr == nil {
			return pref, nil
		}
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	createQuery := `
		CREATE user_preference CONTENT {
			user_id: type::record($user_id),
			key: $key,
			value: $value,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	result, err = r.db.QueryOne(ctx, createQuery, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: preference already exists", database.ErrDuplicate)
		}
		return nil, err
	}

	return parsePreferenceResult(result)
}

// Delete removes a preference by key. Returns ErrNotFound when absent.
func (r *PreferenceRepository) Delete(ctx context.Context, userID, key string) error {
	existing, err := r.Get(ctx, userID, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return database.ErrNotFound
	}

	query := `
		DELETE user_preference
		WHERE user_id = type::record($user_id) AND key = $key
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"key":     key,
	}

	return r.db.Execute(ctx, query, vars)
}

func parsePreferenceResult(result interface{}) (*model.UserPreference, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return preferenceFromMap(data)
}

func parsePreferencesResult(result interface{}) ([]*model.UserPreference, error) {
	items, ok := extractQueryResults(result)
	if !ok {
		return []*model.UserPreference{}, nil
	}

	prefs := make([]*model.UserPreference, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		pref, err := preferenceFromMap(data)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, pref)
	}
	return prefs, nil
}

func preferenceFromMap(data map[string]interface{}) (*model.UserPreference, error) {
	pref := &model.UserPreference{
		ID:     extractIDValue(data["id"]),
		UserID: extractIDValue(data["user_id"]),
		Key:    getString(data, "key"),
		Value:  getString(data, "value"),
	}

	if t := getTime(data, "created_on"); t != nil {
		pref.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		pref.UpdatedOn = *t
	}

	return pref, nil
}
