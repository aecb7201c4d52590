// Package fixtures provides test data factories for integration testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	char := f.CreateCharacter(t, user)
//	event := f.CreateEvent(t, user)
//	f.CreateSignup(t, event, user, char)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email     string
	Username  string
	Password  string
	Timezone  string
	DiscordID *string
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:    fmt.Sprintf("user_%s@test.local", randomID()),
		Username: fmt.Sprintf("user_%s", randomID()),
		Password: "testpass123",
		Timezone: "UTC",
	}
	for _, fn := range opts {
		fn(o)
	}

	// MinCost keeps fixture creation fast; these hashes never leave the test db
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			username: $username,
			hash: $hash,
			timezone: $timezone,
			discord_id: IF $discord_id IS NOT NULL THEN $discord_id ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":      o.Email,
		"username":   o.Username,
		"hash":       string(hash),
		"timezone":   o.Timezone,
		"discord_id": strOrNil(o.DiscordID),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	user := parseUserResult(t, results)
	user.Hash = nil // Don't expose hash in fixture
	return user
}

// WithDiscordID links a Discord account on the created user
func WithDiscordID(id string) func(*UserOpts) {
	return func(o *UserOpts) {
		o.DiscordID = &id
	}
}

// ============================================================================
// Character Fixtures
// ============================================================================

// CharacterOpts customizes character creation
type CharacterOpts struct {
	Game   string
	Name   string
	Class  string
	Role   model.CharacterRole
	Level  *int
	IsMain bool
}

// WithRole sets the character's combat role
func WithRole(role model.CharacterRole) func(*CharacterOpts) {
	return func(o *CharacterOpts) {
		o.Role = role
	}
}

// WithGame sets the game the character belongs to
func WithGame(game string) func(*CharacterOpts) {
	return func(o *CharacterOpts) {
		o.Game = game
	}
}

// AsMain marks the character as the user's main for its game
func AsMain() func(*CharacterOpts) {
	return func(o *CharacterOpts) {
		o.IsMain = true
	}
}

// CreateCharacter creates a character owned by the given user
func (f *Factory) CreateCharacter(t *testing.T, owner *model.User, opts ...func(*CharacterOpts)) *model.Character {
	t.Helper()

	o := &CharacterOpts{
		Game:  "wow-classic",
		Name:  fmt.Sprintf("Char%s", randomID()[:6]),
		Class: "Warrior",
		Role:  model.RoleDPS,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE character CONTENT {
			user_id: type::record($user_id),
			game: $game,
			name: $name,
			class: $class,
			role: $role,
			level: IF $level IS NOT NULL THEN $level ELSE NONE END,
			item_level: NONE,
			is_main: $is_main,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id": owner.ID,
		"game":    o.Game,
		"name":    o.Name,
		"class":   o.Class,
		"role":    string(o.Role),
		"level":   intOrNil(o.Level),
		"is_main": o.IsMain,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create character: %v", err)
	}

	return parseCharacterResult(t, results)
}

// ============================================================================
// Event Fixtures
// ============================================================================

// EventOpts customizes event creation
type EventOpts struct {
	Title        string
	Game         string
	StartsAt     time.Time
	EndsAt       time.Time
	MaxAttendees *int
	Status       model.EventStatus
	ChannelID    *string
}

// WithCapacity caps the event's confirmed roster
func WithCapacity(n int) func(*EventOpts) {
	return func(o *EventOpts) {
		o.MaxAttendees = &n
	}
}

// WithStatus sets the event lifecycle status
func WithStatus(status model.EventStatus) func(*EventOpts) {
	return func(o *EventOpts) {
		o.Status = status
	}
}

// WithTimes pins the event's start and end
func WithTimes(starts, ends time.Time) func(*EventOpts) {
	return func(o *EventOpts) {
		o.StartsAt = starts
		o.EndsAt = ends
	}
}

// WithChannel sets the Discord channel for announcements
func WithChannel(channelID string) func(*EventOpts) {
	return func(o *EventOpts) {
		o.ChannelID = &channelID
	}
}

// CreateEvent creates a scheduled event organized by the given user.
// Defaults to a three hour raid starting in 48 hours.
func (f *Factory) CreateEvent(t *testing.T, organizer *model.User, opts ...func(*EventOpts)) *model.Event {
	t.Helper()

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	o := &EventOpts{
		Title:    fmt.Sprintf("Raid %s", randomID()[:6]),
		Game:     "wow-classic",
		StartsAt: start,
		EndsAt:   start.Add(3 * time.Hour),
		Status:   model.EventStatusScheduled,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE event CONTENT {
			title: $title,
			description: NONE,
			game: $game,
			starts_at: $starts_at,
			ends_at: $ends_at,
			max_attendees: IF $max_attendees IS NOT NULL THEN $max_attendees ELSE NONE END,
			status: $status,
			channel_id: IF $channel_id IS NOT NULL THEN $channel_id ELSE NONE END,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"title":         o.Title,
		"game":          o.Game,
		"starts_at":     o.StartsAt,
		"ends_at":       o.EndsAt,
		"max_attendees": intOrNil(o.MaxAttendees),
		"status":        string(o.Status),
		"channel_id":    strOrNil(o.ChannelID),
		"created_by":    organizer.ID,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}

	return parseEventResult(t, results)
}

// ============================================================================
// Signup Fixtures
// ============================================================================

// SignupOpts customizes signup creation
type SignupOpts struct {
	Role   model.CharacterRole
	Status model.SignupStatus
	Note   *string
}

// Waitlisted puts the signup on the waitlist
func Waitlisted() func(*SignupOpts) {
	return func(o *SignupOpts) {
		o.Status = model.SignupStatusWaitlisted
	}
}

// CreateSignup signs the user up for the event with the given character.
// The signup defaults to confirmed with the character's role.
func (f *Factory) CreateSignup(t *testing.T, event *model.Event, user *model.User, char *model.Character, opts ...func(*SignupOpts)) *model.Signup {
	t.Helper()

	o := &SignupOpts{
		Role:   char.Role,
		Status: model.SignupStatusConfirmed,
	}
	for _, fn := range opts {
		fn(o)
	}

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
	vars := map[string]interface{}{
		"event_id":        event.ID,
		"user_id":         user.ID,
		"character_id":    char.ID,
		"role":            string(o.Role),
		"role_rank":       model.RoleRank(o.Role),
		"note":            strOrNil(o.Note),
		"status":          string(o.Status),
		"username":        user.Username,
		"character_name":  char.Name,
		"character_class": char.Class,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create signup: %v", err)
	}

	return parseSignupResult(t, results)
}

// ============================================================================
// Game Time Fixtures
// ============================================================================

// CreateTemplateSlot creates one weekly template slot for the user
func (f *Factory) CreateTemplateSlot(t *testing.T, user *model.User, day, hour int, status model.SlotStatus) *model.TemplateSlot {
	t.Helper()

	query := `
		CREATE template_slot CONTENT {
			user_id: type::record($user_id),
			day_of_week: $day_of_week,
			hour: $hour,
			status: $status,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":     user.ID,
		"day_of_week": day,
		"hour":        hour,
		"status":      string(status),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create template slot: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.TemplateSlot{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user_id"),
		DayOfWeek: getInt(data, "day_of_week"),
		Hour:      getInt(data, "hour"),
		Status:    model.SlotStatus(getString(data, "status")),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

// CreateOverride creates a per-date override for the user
func (f *Factory) CreateOverride(t *testing.T, user *model.User, date string, cells []model.OverrideCell) *model.SlotOverride {
	t.Helper()

	cellDocs := make([]map[string]interface{}, 0, len(cells))
	for _, c := range cells {
		cellDocs = append(cellDocs, map[string]interface{}{
			"hour":   c.Hour,
			"status": string(c.Status),
		})
	}

	query := `
		CREATE slot_override CONTENT {
			user_id: type::record($user_id),
			date: $date,
			cells: $cells,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id": user.ID,
		"date":    date,
		"cells":   cellDocs,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create override: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.SlotOverride{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user_id"),
		Date:      getString(data, "date"),
		Cells:     cells,
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

// CreateAbsence creates an absence range for the user
func (f *Factory) CreateAbsence(t *testing.T, user *model.User, startsOn, endsOn string, reason *string) *model.AbsenceRange {
	t.Helper()

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
		"user_id":   user.ID,
		"starts_on": startsOn,
		"ends_on":   endsOn,
		"reason":    strOrNil(reason),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create absence: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.AbsenceRange{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user_id"),
		StartsOn:  getString(data, "starts_on"),
		EndsOn:    getString(data, "ends_on"),
		Reason:    getStringPtr(data, "reason"),
		CreatedOn: getTime(data, "created_on"),
	}
}

// ============================================================================
// Preference Fixtures
// ============================================================================

// CreatePreference stores one settings entry for the user
func (f *Factory) CreatePreference(t *testing.T, user *model.User, key, value string) *model.UserPreference {
	t.Helper()

	query := `
		CREATE user_preference CONTENT {
			user_id: type::record($user_id),
			key: $key,
			value: $value,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id": user.ID,
		"key":     key,
		"value":   value,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create preference: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.UserPreference{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user_id"),
		Key:       getString(data, "key"),
		Value:     getString(data, "value"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

// ============================================================================
// Result Parsers
// ============================================================================

func parseUserResult(t *testing.T, results []interface{}) *model.User {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.User{
		ID:        getString(data, "id"),
		Email:     getString(data, "email"),
		Username:  getString(data, "username"),
		Hash:      getStringPtr(data, "hash"),
		Timezone:  getString(data, "timezone"),
		DiscordID: getStringPtr(data, "discord_id"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseCharacterResult(t *testing.T, results []interface{}) *model.Character {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Character{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user_id"),
		Game:      getString(data, "game"),
		Name:      getString(data, "name"),
		Class:     getString(data, "class"),
		Role:      model.CharacterRole(getString(data, "role")),
		IsMain:    getBool(data, "is_main"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseEventResult(t *testing.T, results []interface{}) *model.Event {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Event{
		ID:          getString(data, "id"),
		Title:       getString(data, "title"),
		Description: getStringPtr(data, "description"),
		Game:        getString(data, "game"),
		StartsAt:    getTime(data, "starts_at"),
		EndsAt:      getTime(data, "ends_at"),
		Status:      model.EventStatus(getString(data, "status")),
		ChannelID:   getStringPtr(data, "channel_id"),
		CreatedBy:   getString(data, "created_by"),
		CreatedOn:   getTime(data, "created_on"),
		UpdatedOn:   getTime(data, "updated_on"),
	}
}

func parseSignupResult(t *testing.T, results []interface{}) *model.Signup {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Signup{
		ID:          getString(data, "id"),
		EventID:     getString(data, "event_id"),
		UserID:      getString(data, "user_id"),
		CharacterID: getString(data, "character_id"),
		Role:        model.CharacterRole(getString(data, "role")),
		Note:        getStringPtr(data, "note"),
		Status:      model.SignupStatus(getString(data, "status")),
		CreatedOn:   getTime(data, "created_on"),
		UpdatedOn:   getTime(data, "updated_on"),
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	if v := data[key]; v != nil {
		// Record IDs come back as structured values
		if rid, ok := v.(models.RecordID); ok {
			return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
		}
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getStringPtr(data map[string]interface{}, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	switch v := data[key].(type) {
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	case time.Time:
		return v
	case models.CustomDateTime:
		return v.Time
	case *models.CustomDateTime:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
