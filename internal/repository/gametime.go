package repository

import (
	"context"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// GameTimeRepository handles weekly template slot data access
type GameTimeRepository struct {
	db database.Database
}

// NewGameTimeRepository creates a new game time repository
func NewGameTimeRepository(db database.Database) *GameTimeRepository {
	return &GameTimeRepository{db: db}
}

// ListSlots returns the user's weekly template ordered by day then hour
func (r *GameTimeRepository) ListSlots(ctx context.Context, userID string) ([]*model.TemplateSlot, error) {
	query := `
		SELECT * FROM template_slot
		WHERE user_id = type::record($user_id)
		ORDER BY day_of_week ASC, hour ASC
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseTemplateSlotsResult(result)
}

// ReplaceSlots swaps the user's entire weekly template in one
// transaction: delete everything, then recreate the submitted set.
// Variable namespacing in the builder keeps the per-slot vars apart.
func (r *GameTimeRepository) ReplaceSlots(ctx context.Context, userID string, slots []*model.TemplateSlot) error {
	tb := database.NewTxBuilder()

	tb.Add(`
		DELETE template_slot WHERE user_id = type::record($user_id)
	`, map[string]interface{}{
		"user_id": userID,
	})

	for _, slot := range slots {
		tb.Add(`
			CREATE template_slot SET
				user_id = type::record($user_id),
				day_of_week = $day_of_week,
				hour = $hour,
				status = $status,
				created_on = time::now(),
				updated_on = time::now()
		`, map[string]interface{}{
			"user_id":     userID,
			"day_of_week": slot.DayOfWeek,
			"hour":        slot.Hour,
			"status":      string(slot.Status),
		})
	}

	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

func parseTemplateSlotsResult(result interface{}) ([]*model.TemplateSlot, error) {
	items, ok := extractQueryResults(result)
	if !ok {
		return []*model.TemplateSlot{}, nil
	}

	slots := make([]*model.TemplateSlot, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		slot := &model.TemplateSlot{
			ID:        extractIDValue(data["id"]),
			UserID:    extractIDValue(data["user_id"]),
			DayOfWeek: getInt(data, "day_of_week"),
			Hour:      getInt(data, "hour"),
			Status:    model.SlotStatus(getString(data, "status")),
		}
		if t := getTime(data, "created_on"); t != nil {
			slot.CreatedOn = *t
		}
		if t := getTime(data, "updated_on"); t != nil {
			slot.UpdatedOn = *t
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
