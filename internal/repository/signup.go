package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// SignupRepository handles signup data access.
//
// Signup rows denormalize username, character name, character class and a
// numeric role_rank so roster views come back from a single ORDER BY
// without joins. The snapshot survives character deletion.
type SignupRepository struct {
	db database.Database
}

// NewSignupRepository creates a new signup repository
func NewSignupRepository(db database.Database) *SignupRepository {
	return &SignupRepository{db: db}
}

// Create creates a new signup with its denormalized roster fields.
// A withdrawn row for the same (event, user) is revived in place;
// ErrDuplicate means an active signup already exists.
func (r *SignupRepository) Create(ctx context.Context, entry *model.RosterEntry) error {
	query := `
		CREATE signup CONTENT {
			event_id: type::record($event_id),
			user_id: type::record($user_id),
			character_id: type::record($character_id),
			role: $role,
			role_rank: $role_rank,
			note: IF $note IS NOT NULL THEN $note ELSE NONE END,
			status: $status,
			username: $username,
			character_name: $character_name,
			character_class: $character_class,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	s := entry.Signup
	vars := map[string]interface{}{
		"event_id":        s.EventID,
		"user_id":         s.UserID,
		"character_id":    s.CharacterID,
		"role":            string(s.Role),
		"role_rank":       model.RoleRank(s.Role),
		"note":            ptrToNone(s.Note),
		"status":          string(s.Status),
		"username":        entry.Username,
		"character_name":  entry.CharacterName,
		"character_class": entry.CharacterClass,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return r.reviveWithdrawn(ctx, entry)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	s.ID = created.ID
	s.CreatedOn = created.CreatedOn
	s.UpdatedOn = created.UpdatedOn
	return nil
}

// reviveWithdrawn reactivates a withdrawn signup row, which still
// occupies the (event, user) unique index. The row keeps its identity
// but created_on resets, so a returning user rejoins the back of the
// waitlist queue. Returns ErrDuplicate when the blocking row is active.
func (r *SignupRepository) reviveWithdrawn(ctx context.Context, entry *model.RosterEntry) error {
	query := `
		UPDATE signup SET
			character_id = type::record($character_id),
			role = $role,
			role_rank = $role_rank,
			note = IF $note IS NOT NULL THEN $note ELSE NONE END,
			status = $status,
			username = $username,
			character_name = $character_name,
			character_class = $character_class,
			created_on = time::now(),
			updated_on = time::now()
		WHERE event_id = type::record($event_id)
			AND user_id = type::record($user_id)
			AND status = $withdrawn
		RETURN AFTER
	`

	s := entry.Signup
	vars := map[string]interface{}{
		"event_id":        s.EventID,
		"user_id":         s.UserID,
		"character_id":    s.CharacterID,
		"role":            string(s.Role),
		"role_rank":       model.RoleRank(s.Role),
		"note":            ptrToNone(s.Note),
		"status":          string(s.Status),
		"username":        entry.Username,
		"character_name":  entry.CharacterName,
		"character_class": entry.CharacterClass,
		"withdrawn":       string(model.SignupStatusWithdrawn),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	revived, err := extractCreatedRecord(result)
	if err != nil || revived.ID == "" {
		return fmt.Errorf("%w: already signed up", database.ErrDuplicate)
	}

	s.ID = revived.ID
	s.CreatedOn = revived.CreatedOn
	s.UpdatedOn = revived.UpdatedOn
	return nil
}

// GetByEventAndUser retrieves the user's active signup for an event.
// Withdrawn signups do not count.
func (r *SignupRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.RosterEntry, error) {
	query := `
		SELECT * FROM signup
		WHERE event_id = type::record($event_id)
			AND user_id = type::record($user_id)
			AND status != "withdrawn"
		LIMIT 1
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry, err := parseRosterEntryResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Update applies a partial update and returns the result. Callers pass
// the recomputed role_rank and character snapshot alongside the change.
func (r *SignupRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.RosterEntry, error) {
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

	return parseRosterEntryResult(result)
}

// CountConfirmed counts confirmed signups for an event
func (r *SignupRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT count() AS count FROM signup
		WHERE event_id = type::record($event_id) AND status = "confirmed"
		GROUP ALL
	`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// ListRanked returns the event roster ordered for display: confirmed
// before waitlisted, tanks and healers first, earliest signup wins ties.
// A limit of 0 returns the full roster.
func (r *SignupRepository) ListRanked(ctx context.Context, eventID string, limit int) ([]*model.RosterEntry, error) {
	query := `
		SELECT * FROM signup
		WHERE event_id = type::record($event_id) AND status != "withdrawn"
		ORDER BY status ASC, role_rank ASC, created_on ASC
	`
	vars := map[string]interface{}{"event_id": eventID}

	if limit > 0 {
		query += ` LIMIT $limit`
		vars["limit"] = limit
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseRosterEntriesResult(result)
}

// Withdraw marks a signup withdrawn without touching the waitlist
func (r *SignupRepository) Withdraw(ctx context.Context, id string) error {
	query := `
		UPDATE type::record($id)
		SET status = $status, updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":     id,
		"status": string(model.SignupStatusWithdrawn),
	}

	return r.db.Execute(ctx, query, vars)
}

// WithdrawAndPromote withdraws a confirmed signup and promotes the
// earliest waitlisted signup for the event in the same transaction.
func (r *SignupRepository) WithdrawAndPromote(ctx context.Context, id, eventID string) error {
	batch := database.NewAtomicBatch()

	batch.Add(`
		UPDATE type::record($id)
		SET status = $status, updated_on = time::now()
	`, map[string]interface{}{
		"id":     id,
		"status": string(model.SignupStatusWithdrawn),
	})

	batch.Add(`
		UPDATE (
			SELECT VALUE id FROM signup
			WHERE event_id = type::record($event_id) AND status = "waitlisted"
			ORDER BY created_on ASC
			LIMIT 1
		)
		SET status = "confirmed", updated_on = time::now()
	`, map[string]interface{}{
		"event_id": eventID,
	})

	return batch.Execute(ctx, r.db)
}

// WithdrawForEvent withdraws every active signup on an event. Used when
// an event is cancelled.
func (r *SignupRepository) WithdrawForEvent(ctx context.Context, eventID string) error {
	query := `
		UPDATE signup
		SET status = $status, updated_on = time::now()
		WHERE event_id = type::record($event_id) AND status != $status
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"status":   string(model.SignupStatusWithdrawn),
	}

	return r.db.Execute(ctx, query, vars)
}

// ListCommittedEvents returns events the user is confirmed on that
// overlap the [from, to) window. Feeds the committed layer of the
// composite planner view.
func (r *SignupRepository) ListCommittedEvents(ctx context.Context, userID string, from, to time.Time) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE id IN (
			SELECT VALUE event_id FROM signup
			WHERE user_id = type::record($user_id) AND status = "confirmed"
		)
		AND status IN ["scheduled", "completed"]
		AND starts_at < $to
		AND ends_at > $from
		ORDER BY starts_at ASC
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

	return parseEventsResult(result)
}

func parseRosterEntryResult(result interface{}) (*model.RosterEntry, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return rosterEntryFromMap(data)
}

func parseRosterEntriesResult(result interface{}) ([]*model.RosterEntry, error) {
	items, ok := extractQueryResults(result)
	if !ok {
		return []*model.RosterEntry{}, nil
	}

	entries := make([]*model.RosterEntry, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		entry, err := rosterEntryFromMap(data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func rosterEntryFromMap(data map[string]interface{}) (*model.RosterEntry, error) {
	signup := &model.Signup{
		ID:          extractIDValue(data["id"]),
		EventID:     extractIDValue(data["event_id"]),
		UserID:      extractIDValue(data["user_id"]),
		CharacterID: extractIDValue(data["character_id"]),
		Role:        model.CharacterRole(getString(data, "role")),
		Note:        getStringPtr(data, "note"),
		Status:      model.SignupStatus(getString(data, "status")),
	}

	if t := getTime(data, "created_on"); t != nil {
		signup.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		signup.UpdatedOn = *t
	}

	return &model.RosterEntry{
		Signup:         signup,
		Username:       getString(data, "username"),
		CharacterName:  getString(data, "character_name"),
		CharacterClass: getString(data, "character_class"),
	}, nil
}
