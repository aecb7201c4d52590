package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

const dateLayout = "2006-01-02"

// GameTimeRepository defines the interface for weekly template storage
type GameTimeRepository interface {
	ListSlots(ctx context.Context, userID string) ([]*model.TemplateSlot, error)
	ReplaceSlots(ctx context.Context, userID string, slots []*model.TemplateSlot) error
}

// OverrideRepository defines the interface for per-date override storage
type OverrideRepository interface {
	GetByDate(ctx context.Context, userID, date string) (*model.SlotOverride, error)
	ListRange(ctx context.Context, userID, from, to string) ([]*model.SlotOverride, error)
	Upsert(ctx context.Context, userID, date string, cells []model.OverrideCell) (*model.SlotOverride, error)
	DeleteByDate(ctx context.Context, userID, date string) error
}

// AbsenceRepository defines the interface for absence range storage
type AbsenceRepository interface {
	Create(ctx context.Context, absence *model.AbsenceRange) error
	GetByID(ctx context.Context, id string) (*model.AbsenceRange, error)
	ListByUser(ctx context.Context, userID, onOrAfter string) ([]*model.AbsenceRange, error)
	ListOverlapping(ctx context.Context, userID, startsOn, endsOn string) ([]*model.AbsenceRange, error)
	Delete(ctx context.Context, id string) error
}

// GameTimeService handles the weekly availability planner: recurring
// template slots, per-date overrides, absence ranges, and the merged
// composite view.
type GameTimeService struct {
	slotRepo     GameTimeRepository
	overrideRepo OverrideRepository
	absenceRepo  AbsenceRepository
	signupRepo   SignupRepository
}

// GameTimeServiceConfig holds configuration for the game time service
type GameTimeServiceConfig struct {
	SlotRepo     GameTimeRepository
	OverrideRepo OverrideRepository
	AbsenceRepo  AbsenceRepository
	SignupRepo   SignupRepository
}

// NewGameTimeService creates a new game time service
func NewGameTimeService(cfg GameTimeServiceConfig) *GameTimeService {
	return &GameTimeService{
		slotRepo:     cfg.SlotRepo,
		overrideRepo: cfg.OverrideRepo,
		absenceRepo:  cfg.AbsenceRepo,
		signupRepo:   cfg.SignupRepo,
	}
}

// mondayIndexed translates Go's Sunday-first weekday into the
// Monday-first index used across the planner.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// GetTemplate returns the user's weekly template slots
func (s *GameTimeService) GetTemplate(ctx context.Context, userID string) ([]*model.TemplateSlot, error) {
	return s.slotRepo.ListSlots(ctx, userID)
}

// ReplaceTemplate replaces the full weekly template in one transaction.
// Slots overlapping a confirmed signup in the committed horizon are
// carried over even when missing from the submitted set; the returned
// keys identify them.
func (s *GameTimeService) ReplaceTemplate(ctx context.Context, userID string, req *model.PutTemplateRequest) ([]*model.TemplateSlot, []model.SlotKey, error) {
	seen := make(map[model.SlotKey]bool)
	slots := make([]*model.TemplateSlot, 0, len(req.Slots))
	for _, in := range req.Slots {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 || in.Hour < 0 || in.Hour > 23 {
			return nil, nil, ErrInvalidSlot
		}
		status := model.SlotStatusAvailable
		if in.Status != "" {
			switch model.SlotStatus(in.Status) {
			case model.SlotStatusAvailable, model.SlotStatusPreferred:
				status = model.SlotStatus(in.Status)
			default:
				return nil, nil, ErrInvalidSlotStatus
			}
		}
		key := model.SlotKey{DayOfWeek: in.DayOfWeek, Hour: in.Hour}
		if seen[key] {
			return nil, nil, ErrDuplicateSlot
		}
		seen[key] = true
		slots = append(slots, &model.TemplateSlot{
			UserID:    userID,
			DayOfWeek: in.DayOfWeek,
			Hour:      in.Hour,
			Status:    status,
		})
	}

	committed, err := s.committedSlotKeys(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	current, err := s.slotRepo.ListSlots(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	carried := make([]model.SlotKey, 0)
	for _, slot := range current {
		key := model.SlotKey{DayOfWeek: slot.DayOfWeek, Hour: slot.Hour}
		if !committed[key] || seen[key] {
			continue
		}
		seen[key] = true
		slots = append(slots, &model.TemplateSlot{
			UserID:    userID,
			DayOfWeek: slot.DayOfWeek,
			Hour:      slot.Hour,
			Status:    slot.Status,
		})
		carried = append(carried, key)
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].Hour < slots[j].Hour
	})
	sort.Slice(carried, func(i, j int) bool {
		if carried[i].DayOfWeek != carried[j].DayOfWeek {
			return carried[i].DayOfWeek < carried[j].DayOfWeek
		}
		return carried[i].Hour < carried[j].Hour
	})

	if err := s.slotRepo.ReplaceSlots(ctx, userID, slots); err != nil {
		return nil, nil, err
	}

	saved, err := s.slotRepo.ListSlots(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return saved, carried, nil
}

// committedSlotKeys collects the weekly cells covered by the user's
// confirmed signups inside the committed horizon.
func (s *GameTimeService) committedSlotKeys(ctx context.Context, userID string) (map[model.SlotKey]bool, error) {
	now := time.Now().UTC()
	horizon := now.AddDate(0, 0, model.CommittedHorizonDays)
	events, err := s.signupRepo.ListCommittedEvents(ctx, userID, now, horizon)
	if err != nil {
		return nil, err
	}

	keys := make(map[model.SlotKey]bool)
	for _, event := range events {
		for t := event.StartsAt.UTC().Truncate(time.Hour); t.Before(event.EndsAt); t = t.Add(time.Hour) {
			keys[model.SlotKey{DayOfWeek: mondayIndexed(t.Weekday()), Hour: t.Hour()}] = true
		}
	}
	return keys, nil
}

// ListOverrides returns the user's overrides inside a date window
func (s *GameTimeService) ListOverrides(ctx context.Context, userID, from, to string) ([]*model.SlotOverride, error) {
	fromDate, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := parseDate(to)
	if err != nil {
		return nil, err
	}
	if toDate.Before(fromDate) {
		return nil, ErrInvalidDateRange
	}
	if inclusiveDays(fromDate, toDate) > model.MaxOverrideWindowDays {
		return nil, ErrDateWindowTooWide
	}
	return s.overrideRepo.ListRange(ctx, userID, from, to)
}

// PutOverride upserts the override cell list for one date
func (s *GameTimeService) PutOverride(ctx context.Context, userID, date string, req *model.PutOverrideRequest) (*model.SlotOverride, error) {
	if _, err := parseDate(date); err != nil {
		return nil, err
	}
	if len(req.Cells) == 0 {
		return nil, ErrEmptyCells
	}

	seen := make(map[int]bool)
	cells := make([]model.OverrideCell, 0, len(req.Cells))
	for _, in := range req.Cells {
		if in.Hour < 0 || in.Hour > 23 {
			return nil, ErrInvalidSlot
		}
		if seen[in.Hour] {
			return nil, ErrDuplicateSlot
		}
		seen[in.Hour] = true
		switch model.OverrideStatus(in.Status) {
		case model.OverrideAvailable, model.OverrideUnavailable:
		default:
			return nil, ErrInvalidOverrideStatus
		}
		cells = append(cells, model.OverrideCell{Hour: in.Hour, Status: model.OverrideStatus(in.Status)})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Hour < cells[j].Hour })

	return s.overrideRepo.Upsert(ctx, userID, date, cells)
}

// DeleteOverride removes the override for one date
func (s *GameTimeService) DeleteOverride(ctx context.Context, userID, date string) error {
	if _, err := parseDate(date); err != nil {
		return err
	}
	if err := s.overrideRepo.DeleteByDate(ctx, userID, date); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrOverrideNotFound
		}
		return err
	}
	return nil
}

// ListAbsences returns the user's current and future absence ranges
func (s *GameTimeService) ListAbsences(ctx context.Context, userID string) ([]*model.AbsenceRange, error) {
	today := time.Now().UTC().Format(dateLayout)
	return s.absenceRepo.ListByUser(ctx, userID, today)
}

// CreateAbsence records a new absence range. Ranges never overlap.
func (s *GameTimeService) CreateAbsence(ctx context.Context, userID string, req *model.CreateAbsenceRequest) (*model.AbsenceRange, error) {
	starts, err := parseDate(req.StartsOn)
	if err != nil {
		return nil, err
	}
	ends, err := parseDate(req.EndsOn)
	if err != nil {
		return nil, err
	}
	if ends.Before(starts) {
		return nil, ErrInvalidDateRange
	}
	if inclusiveDays(starts, ends) > model.MaxAbsenceDays {
		return nil, ErrAbsenceTooLong
	}

	var reason *string
	if req.Reason != nil {
		trimmed := strings.TrimSpace(*req.Reason)
		if len(trimmed) > model.MaxAbsenceReasonLength {
			return nil, ErrReasonTooLong
		}
		if trimmed != "" {
			reason = &trimmed
		}
	}

	overlapping, err := s.absenceRepo.ListOverlapping(ctx, userID, req.StartsOn, req.EndsOn)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrAbsenceOverlap
	}

	absence := &model.AbsenceRange{
		UserID:   userID,
		StartsOn: req.StartsOn,
		EndsOn:   req.EndsOn,
		Reason:   reason,
	}
	if err := s.absenceRepo.Create(ctx, absence); err != nil {
		return nil, err
	}
	return absence, nil
}

// DeleteAbsence removes one of the caller's absence ranges
func (s *GameTimeService) DeleteAbsence(ctx context.Context, userID, id string) error {
	absence, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if absence == nil || absence.UserID != userID {
		return ErrAbsenceNotFound
	}
	return s.absenceRepo.Delete(ctx, id)
}

// GetCompositeView merges template slots, event commitments, date
// overrides, and absences into one weekly grid. Layers apply in that
// order so later ones win: absence > override > committed > template.
func (s *GameTimeService) GetCompositeView(ctx context.Context, userID, start string) (*model.CompositeView, error) {
	var weekStart time.Time
	if start == "" {
		now := time.Now().UTC()
		weekStart = now.AddDate(0, 0, -mondayIndexed(now.Weekday())).Truncate(24 * time.Hour)
	} else {
		parsed, err := parseDate(start)
		if err != nil {
			return nil, err
		}
		if mondayIndexed(parsed.Weekday()) != 0 {
			return nil, ErrNotAMonday
		}
		weekStart = parsed
	}
	weekEnd := weekStart.AddDate(0, 0, 7)

	view := &model.CompositeView{WeekStart: weekStart.Format(dateLayout)}
	for i := 0; i < 7; i++ {
		view.Days[i].Date = weekStart.AddDate(0, 0, i).Format(dateLayout)
		view.Days[i].DayOfWeek = i
		for h := 0; h < 24; h++ {
			view.Days[i].Hours[h] = model.CompositeCell{State: model.CellFree, Source: model.SourceNone}
		}
	}

	slots, err := s.slotRepo.ListSlots(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		state := model.CellAvailable
		if slot.Status == model.SlotStatusPreferred {
			state = model.CellPreferred
		}
		view.Days[slot.DayOfWeek].Hours[slot.Hour] = model.CompositeCell{State: state, Source: model.SourceTemplate}
	}

	events, err := s.signupRepo.ListCommittedEvents(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		eventID := event.ID
		for t := event.StartsAt.UTC().Truncate(time.Hour); t.Before(event.EndsAt); t = t.Add(time.Hour) {
			if t.Before(weekStart) || !t.Before(weekEnd) {
				continue
			}
			offset := int(t.Sub(weekStart).Hours())
			view.Days[offset/24].Hours[offset%24] = model.CompositeCell{
				State:   model.CellCommitted,
				Source:  model.SourceEvent,
				EventID: &eventID,
			}
		}
	}

	weekEndDate := weekStart.AddDate(0, 0, 6).Format(dateLayout)
	overrides, err := s.overrideRepo.ListRange(ctx, userID, view.WeekStart, weekEndDate)
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		date, err := parseDate(override.Date)
		if err != nil {
			continue
		}
		day := int(date.Sub(weekStart).Hours() / 24)
		if day < 0 || day > 6 {
			continue
		}
		for _, cell := range override.Cells {
			state := model.CellUnavailable
			if cell.Status == model.OverrideAvailable {
				state = model.CellAvailable
			}
			view.Days[day].Hours[cell.Hour] = model.CompositeCell{State: state, Source: model.SourceOverride}
		}
	}

	absences, err := s.absenceRepo.ListOverlapping(ctx, userID, view.WeekStart, weekEndDate)
	if err != nil {
		return nil, err
	}
	for _, absence := range absences {
		for i := 0; i < 7; i++ {
			date := view.Days[i].Date
			if date < absence.StartsOn || date > absence.EndsOn {
				continue
			}
			for h := 0; h < 24; h++ {
				view.Days[i].Hours[h] = model.CompositeCell{State: model.CellAbsent, Source: model.SourceAbsence}
			}
		}
	}

	return view, nil
}

// parseDate parses a YYYY-MM-DD string as a UTC date
func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed.UTC(), nil
}

// inclusiveDays counts the days a date range covers, both ends included
func inclusiveDays(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}
