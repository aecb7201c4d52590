package repository

import (
	"context"
	"errors"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// AbsenceRepository handles absence range data access
type AbsenceRepository struct {
	db database.Database
}

// NewAbsenceRepository creates a new absence repository
func NewAbsenceRepository(db database.Database) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// Create creates a new absence range
func (r *AbsenceRepository) Create(ctx context.Context, absence *model.AbsenceRange) error {
	query := `
		CREATE absence_range CONTENT {
			user_id: type::record($user_id),
			starts_on: $starts_on,
			ends_on: $ends_on,
			reason: IF $reason IS NOT NULL THEN $reason ELSE NONE END,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user_id":   absence.UserID,
		"starts_on": absence.StartsOn,
		"ends_on":   absence.EndsOn,
		"reason":    ptrToNone(absence.Reason),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	absence.ID = created.ID
	absence.CreatedOn = created.CreatedOn
	return nil
}

// GetByID retrieves an absence range by ID
func (r *AbsenceRepository) GetByID(ctx context.Context, id string) (*model.AbsenceRange, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	absence, err := parseAbsenceResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return absence, nil
}

// ListByUser returns ranges ending on or after the given date, so past
// absences age out of the listing.
func (r *AbsenceRepository) ListByUser(ctx context.Context, userID, onOrAfter string) ([]*model.AbsenceRange, error) {
	query := `
		SELECT * FROM absence_range
		WHERE user_id = type::record($user_id) AND ends_on >= $on_or_after
		ORDER BY starts_on ASC
	`
	vars := map[string]interface{}{
		"user_id":     userID,
		"on_or_after": onOrAfter,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseAbsencesResult(result)
}

// ListOverlapping returns ranges intersecting [startsOn, endsOn].
// Both the overlap conflict check and the composite view use this.
func (r *AbsenceRepository) ListOverlapping(ctx context.Context, userID, startsOn, endsOn string) ([]*model.AbsenceRange, error) {
	query := `
		SELECT * FROM absence_range
		WHERE user_id = type::record($user_id)
			AND starts_on <= $ends_on
			AND ends_on >= $starts_on
		ORDER BY starts_on ASC
	`
	vars := map[string]interface{}{
		"user_id":   userID,
		"starts_on": startsOn,
		"ends_on":   endsOn,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseAbsencesResult(result)
}

// Delete removes an absence range
func (r *AbsenceRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

func parseAbsenceResult(result interface{}) (*model.AbsenceRange, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return absenceFromMap(data)
}

func parseAbsencesResult(result interface{}) ([]*model.AbsenceRange, error) {
	items, ok := extractQueryResults(result)
	if !ok {
		return []*model.AbsenceRange{}, nil
	}

	absences := make([]*model.AbsenceRange, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		absence, err := absenceFromMap(data)
		if err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}
	return absences, nil
}

func absenceFromMap(data map[string]interface{}) (*model.AbsenceRange, error) {
	absence := &model.AbsenceRange{
		ID:       extractIDValue(data["id"]),
		UserID:   extractIDValue(data["user_id"]),
		StartsOn: getString(data, "starts_on"),
		EndsOn:   getString(data, "ends_on"),
		Reason:   getStringPtr(data, "reason"),
	}

	if t := getTime(data, "created_on"); t != nil {
		absence.CreatedOn = *t
	}

	return absence, nil
}
