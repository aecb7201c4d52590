package repository

import (
	"context"
	"errors"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// OverrideRepository handles per-date override data access
type OverrideRepository struct {
	db database.Database
}

// NewOverrideRepository creates a new override repository
func NewOverrideRepository(db database.Database) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// GetByDate retrieves the user's override for one date
func (r *OverrideRepository) GetByDate(ctx context.Context, userID, date string) (*model.SlotOverride, error) {
	query := `
		SELECT * FROM slot_override
		WHERE user_id = type::record($user_id) AND date = $date
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"date":    date,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	override, err := parseOverrideResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return override, nil
}

// ListRange returns overrides with dates in [from, to] ordered by date.
// Dates are YYYY-MM-DD strings so string comparison orders correctly.
func (r *OverrideRepository) ListRange(ctx context.Context, userID, from, to string) ([]*model.SlotOverride, error) {
	query := `
		SELECT * FROM slot_override
		WHERE user_id = type::record($user_id)
			AND date >= $from
			AND date <= $to
		ORDER BY date ASC
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"from":    from,
		"to":      to,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseOverridesResult(result)
}

// Upsert sets the full cell list for a date, creating the row on first
// write. The unique index on (user_id, date) backstops races.
func (r *OverrideRepository) Upsert(ctx context.Context, userID, date string, cells []model.OverrideCell) (*model.SlotOverride, error) {
	cellMaps := make([]map[string]interface{}, 0, len(cells))
	for _, cell := range cells {
		cellMaps = append(cellMaps, map[string]interface{}{
			"hour":   cell.Hour,
			"status": string(cell.Status),
		})
	}

	vars := map[string]interface{}{
		"user_id": userID,
		"date":    date,
		"cells":   cellMaps,
	}

	updateQuery := `
		UPDATE slot_override
		SET cells = $cells, updated_on = time::now()
		WHERE user_id = type::record($user_id) AND date = $date
		RETURN AFTER
	`

	result, err := r.db.QueryOne(ctx, updateQuery, vars)
	if err == nil {
		if override, perr := parseOverrideResult(result); perr == nil {
			return override, nil
		}
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	createQuery := `
		CREATE slot_override CONTENT {
			user_id: type::record($user_id),
			date: $date,
			cells: $cells,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	result, err = r.db.QueryOne(ctx, createQuery, vars)
	if err != nil {
		return nil, err
	}

	return parseOverrideResult(result)
}

// DeleteByDate removes the override for a date. Returns ErrNotFound
// when no override exists.
func (r *OverrideRepository) DeleteByDate(ctx context.Context, userID, date string) error {
	existing, err := r.GetByDate(ctx, userID, date)
	if err != nil {
		return err
	}
	if existing == nil {
		return database.ErrNotFound
	}

	query := `
		DELETE slot_override
		WHERE user_id = type::record($user_id) AND date = $date
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"date":    date,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseOverrideResult(result interface{}) (*model.SlotOverride, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return overrideFromMap(data)
}

func parseOverridesResult(result interface{}) ([]*model.SlotOverride, error) {
	items, ok := extractQueryResults(result)
	if !ok {
		return []*model.SlotOverride{}, nil
	}

	overrides := make([]*model.SlotOverride, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		override, err := overrideFromMap(data)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	return overrides, nil
}

func overrideFromMap(data map[string]interface{}) (*model.SlotOverride, error) {
	override := &model.SlotOverride{
		ID:     extractIDValue(data["id"]),
		UserID: extractIDValue(data["user_id"]),
		Date:   getString(data, "date"),
		Cells:  make([]model.OverrideCell, 0),
	}

	if raw, ok := data["cells"].([]interface{}); ok {
		for _, item := range raw {
			cellData, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			override.Cells = append(override.Cells, model.OverrideCell{
				Hour:   getInt(cellData, "hour"),
				Status: model.OverrideStatus(getString(cellData, "status")),
			})
		}
	}

	if t := getTime(data, "created_on"); t != nil {
		override.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		override.UpdatedOn = *t
	}

	return override, nil
}
