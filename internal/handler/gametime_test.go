package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// ============================================================================
// Mock Planner Repositories
// ============================================================================

// mockSlotRepo keeps replaced slots so the post-replace read returns
// what was written, matching the real repository's behavior.
type mockSlotRepo struct {
	slots            []*model.TemplateSlot
	listSlotsFunc    func(ctx context.Context, userID string) ([]*model.TemplateSlot, error)
	replaceSlotsFunc func(ctx context.Context, userID string, slots []*model.TemplateSlot) error
}

func (m *mockSlotRepo) ListSlots(ctx context.Context, userID string) ([]*model.TemplateSlot, error) {
	if m.listSlotsFunc != nil {
		return m.listSlotsFunc(ctx, userID)
	}
	return m.slots, nil
}

func (m *mockSlotRepo) ReplaceSlots(ctx context.Context, userID string, slots []*model.TemplateSlot) error {
	if m.replaceSlotsFunc != nil {
		return m.replaceSlotsFunc(ctx, userID, slots)
	}
	m.slots = slots
	return nil
}

type mockOverrideRepo struct {
	getByDateFunc    func(ctx context.Context, userID, date string) (*model.SlotOverride, error)
	listRangeFunc    func(ctx context.Context, userID, from, to string) ([]*model.SlotOverride, error)
	upsertFunc       func(ctx context.Context, userID, date string, cells []model.OverrideCell) (*model.SlotOverride, error)
	deleteByDateFunc func(ctx context.Context, userID, date string) error
}

func (m *mockOverrideRepo) GetByDate(ctx context.Context, userID, date string) (*model.SlotOverride, error) {
	if m.getByDateFunc != nil {
		return m.getByDateFunc(ctx, userID, date)
	}
	return nil, nil
}

func (m *mockOverrideRepo) ListRange(ctx context.Context, userID, from, to string) ([]*model.SlotOverride, error) {
	if m.listRangeFunc != nil {
		return m.listRangeFunc(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockOverrideRepo) Upsert(ctx context.Context, userID, date string, cells []model.OverrideCell) (*model.SlotOverride, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, userID, date, cells)
	}
	return &model.SlotOverride{ID: "override:1", UserID: userID, Date: date, Cells: cells}, nil
}

func (m *mockOverrideRepo) DeleteByDate(ctx context.Context, userID, date string) error {
	if m.deleteByDateFunc != nil {
		return m.deleteByDateFunc(ctx, userID, date)
	}
	return nil
}

type mockAbsenceRepo struct {
	createFunc          func(ctx context.Context, absence *model.AbsenceRange) error
	getByIDFunc         func(ctx context.Context, id string) (*model.AbsenceRange, error)
	listByUserFunc      func(ctx context.Context, userID, onOrAfter string) ([]*model.AbsenceRange, error)
	listOverlappingFunc func(ctx context.Context, userID, startsOn, endsOn string) ([]*model.AbsenceRange, error)
	deleteFunc          func(ctx context.Context, id string) error
}

func (m *mockAbsenceRepo) Create(ctx context.Context, absence *model.AbsenceRange) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, absence)
	}
	absence.ID = "absence:1"
	return nil
}

func (m *mockAbsenceRepo) GetByID(ctx context.Context, id string) (*model.AbsenceRange, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAbsenceRepo) ListByUser(ctx context.Context, userID, onOrAfter string) ([]*model.AbsenceRange, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, onOrAfter)
	}
	return nil, nil
}

func (m *mockAbsenceRepo) ListOverlapping(ctx context.Context, userID, startsOn, endsOn string) ([]*model.AbsenceRange, error) {
	if m.listOverlappingFunc != nil {
		return m.listOverlappingFunc(ctx, userID, startsOn, endsOn)
	}
	return nil, nil
}

func (m *mockAbsenceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ============================================================================
// Test Helpers
// ============================================================================

type gameTimeDeps struct {
	slots     service.GameTimeRepository
	overrides service.OverrideRepository
	absences  service.AbsenceRepository
	signups   service.SignupRepository
}

func newTestGameTimeHandler(deps gameTimeDeps) *GameTimeHandler {
	if deps.slots == nil {
		deps.slots = &mockSlotRepo{}
	}
	if deps.overrides == nil {
		deps.overrides = &mockOverrideRepo{}
	}
	if deps.absences == nil {
		deps.absences = &mockAbsenceRepo{}
	}
	if deps.signups == nil {
		deps.signups = &mockSignupRepo{}
	}
	svc := service.NewGameTimeService(service.GameTimeServiceConfig{
		SlotRepo:     deps.slots,
		OverrideRepo: deps.overrides,
		AbsenceRepo:  deps.absences,
		SignupRepo:   deps.signups,
	})
	return NewGameTimeHandler(svc)
}

func parseTemplateResponse(t *testing.T, body []byte) *TemplateResponse {
	t.Helper()
	var resp DataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("failed to re-encode data: %v", err)
	}
	var tmpl TemplateResponse
	if err := json.Unmarshal(raw, &tmpl); err != nil {
		t.Fatalf("failed to parse template: %v", err)
	}
	return &tmpl
}

// ============================================================================
// Template Tests
// ============================================================================

func TestPutTemplate_ReplacesSlots(t *testing.T) {
	t.Parallel()

	slots := &mockSlotRepo{}
	h := newTestGameTimeHandler(gameTimeDeps{slots: slots})

	req := withUserContext(makeJSONRequest(http.MethodPut, "/v1/game-time/template", model.PutTemplateRequest{
		Slots: []model.TemplateSlotInput{
			{DayOfWeek: 0, Hour: 19},
			{DayOfWeek: 2, Hour: 20, Status: "preferred"},
		},
	}), "user:123")
	w := httptest.NewRecorder()
	h.PutTemplate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	tmpl := parseTemplateResponse(t, w.Body.Bytes())
	if len(tmpl.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(tmpl.Slots))
	}
	if tmpl.Slots[0].Status != model.SlotStatusAvailable {
		t.Errorf("expected omitted status to default to available, got %s", tmpl.Slots[0].Status)
	}
	if tmpl.Slots[1].Status != model.SlotStatusPreferred {
		t.Errorf("expected preferred slot, got %s", tmpl.Slots[1].Status)
	}
	if len(tmpl.CarriedOver) != 0 {
		t.Errorf("expected no carried-over slots, got %v", tmpl.CarriedOver)
	}
}

func TestPutTemplate_CommittedSlotCarriedOver(t *testing.T) {
	t.Parallel()

	// Wednesday 19:00 UTC, covered by a confirmed signup.
	pinned := time.Date(2025, 3, 5, 19, 0, 0, 0, time.UTC)
	slots := &mockSlotRepo{
		slots: []*model.TemplateSlot{
			{ID: "slot:1", UserID: "user:123", DayOfWeek: 2, Hour: 19, Status: model.SlotStatusAvailable},
		},
	}
	signups := &mockSignupRepo{
		listCommittedEventsFunc: func(ctx context.Context, userID string, from, to time.Time) ([]*model.Event, error) {
			return []*model.Event{
				{ID: "event:1", StartsAt: pinned, EndsAt: pinned.Add(time.Hour)},
			}, nil
		},
	}
	h := newTestGameTimeHandler(gameTimeDeps{slots: slots, signups: signups})

	// The submitted template drops the pinned Wednesday slot.
	req := withUserContext(makeJSONRequest(http.MethodPut, "/v1/game-time/template", model.PutTemplateRequest{
		Slots: []model.TemplateSlotInput{{DayOfWeek: 0, Hour: 10}},
	}), "user:123")
	w := httptest.NewRecorder()
	h.PutTemplate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	tmpl := parseTemplateResponse(t, w.Body.Bytes())
	if len(tmpl.Slots) != 2 {
		t.Fatalf("expected submitted plus carried slot, got %d", len(tmpl.Slots))
	}
	if len(tmpl.CarriedOver) != 1 {
		t.Fatalf("expected 1 carried-over slot, got %d", len(tmpl.CarriedOver))
	}
	if tmpl.CarriedOver[0].DayOfWeek != 2 || tmpl.CarriedOver[0].Hour != 19 {
		t.Errorf("expected carried slot (2, 19), got %+v", tmpl.CarriedOver[0])
	}
}

func TestPutTemplate_DuplicateSlot_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	h := newTestGameTimeHandler(gameTimeDeps{})

	req := withUserContext(makeJSONRequest(http.MethodPut, "/v1/game-time/template", model.PutTemplateRequest{
		Slots: []model.TemplateSlotInput{
			{DayOfWeek: 1, Hour: 19},
			{DayOfWeek: 1, Hour: 19},
		},
	}), "user:123")
	w := httptest.NewRecorder()
	h.PutTemplate(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", w.Code, w.Body.String())
	}
}

// ============================================================================
// Override Tests
// ============================================================================

func TestPutOverride_UpsertsCells(t *testing.T) {
	t.Parallel()

	var gotDate string
	var gotCells []model.OverrideCell
	overrides := &mockOverrideRepo{
		upsertFunc: func(ctx context.Context, userID, date string, cells []model.OverrideCell) (*model.SlotOverride, error) {
			gotDate, gotCells = date, cells
			return &model.SlotOverride{ID: "override:1", UserID: userID, Date: date, Cells: cells}, nil
		},
	}
	h := newTestGameTimeHandler(gameTimeDeps{overrides: overrides})

	req := withUserContext(makeJSONRequest(http.MethodPut, "/v1/game-time/overrides/2025-03-04", model.PutOverrideRequest{
		Cells: []model.OverrideCellInput{
			{Hour: 21, Status: "unavailable"},
			{Hour: 19, Status: "available"},
		},
	}), "user:123")
	req.SetPathValue("date", "2025-03-04")
	w := httptest.NewRecorder()
	h.PutOverride(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotDate != "2025-03-04" {
		t.Errorf("expected upsert for 2025-03-04, got %s", gotDate)
	}
	if len(gotCells) != 2 || gotCells[0].Hour != 19 {
		t.Errorf("expected cells sorted by hour, got %+v", gotCells)
	}
}

func TestPutOverride_EmptyCells_ReturnsBadRequest(t *testing.T) {
	t.Parallel()

	h := newTestGameTimeHandler(gameTimeDeps{})

	req := withUserContext(makeJSONRequest(http.MethodPut, "/v1/game-time/overrides/2025-03-04", model.PutOverrideRequest{}), "user:123")
	req.SetPathValue("date", "2025-03-04")
	w := httptest.NewRecorder()
	h.PutOverride(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPutOverride_MalformedDate_ReturnsBadRequest(t *testing.T) {
	t.Parallel()

	h := newTestGameTimeHandler(gameTimeDeps{})

	req := withUserContext(makeJSONRequest(http.MethodPut, "/v1/game-time/overrides/03-04-2025", model.PutOverrideRequest{
		Cells: []model.OverrideCellInput{{Hour: 19, Status: "available"}},
	}), "user:123")
	req.SetPathValue("date", "03-04-2025")
	w := httptest.NewRecorder()
	h.PutOverride(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListOverrides_WindowTooWide_ReturnsBadRequest(t *testing.T) {
	t.Parallel()

	h := newTestGameTimeHandler(gameTimeDeps{})

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/game-time/overrides?from=2025-01-01&to=2025-12-31", nil), "user:123")
	w := httptest.NewRecorder()
	h.ListOverrides(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteOverride_Unknown_ReturnsNotFound(t *testing.T) {
	t.Parallel()

	overrides := &mockOverrideRepo{
		deleteByDateFunc: func(ctx context.Context, userID, date string) error {
			return database.ErrNotFound
		},
	}
	h := newTestGameTimeHandler(gameTimeDeps{overrides: overrides})

	req := withUserContext(httptest.NewRequest(http.MethodDelete, "/v1/game-time/overrides/2025-03-04", nil), "user:123")
	req.SetPathValue("date", "2025-03-04")
	w := httptest.NewRecorder()
	h.DeleteOverride(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

// ============================================================================
// Absence Tests
// ============================================================================

func TestCreateAbsence_ReturnsCreated(t *testing.T) {
	t.Parallel()

	h := newTestGameTimeHandler(gameTimeDeps{})

	req := withUserContext(makeJSONRequest(http.MethodPost, "/v1/game-time/absences", model.CreateAbsenceRequest{
		StartsOn: "2025-07-01",
		EndsOn:   "2025-07-14",
		Reason:   strPtr("summer vacation"),
	}), "user:123")
	w := httptest.NewRecorder()
	h.CreateAbsence(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	data := parseDataResponse(t, w.Body.Bytes())
	if data["starts_on"] != "2025-07-01" || data["ends_on"] != "2025-07-14" {
		t.Errorf("expected absence range in response, got %v", data)
	}
}

func TestCreateAbsence_Overlap_ReturnsConflict(t *testing.T) {
	t.Parallel()

	absences := &mockAbsenceRepo{
		listOverlappingFunc: func(ctx context.Context, userID, startsOn, endsOn string) ([]*model.AbsenceRange, error) {
			return []*model.AbsenceRange{
				{ID: "absence:9", UserID: userID, StartsOn: "2025-07-10", EndsOn: "2025-07-20"},
			}, nil
		},
	}
	h := newTestGameTimeHandler(gameTimeDeps{absences: absences})

	req := withUserContext(makeJSONRequest(http.MethodPost, "/v1/game-time/absences", model.CreateAbsenceRequest{
		StartsOn: "2025-07-01",
		EndsOn:   "2025-07-14",
	}), "user:123")
	w := httptest.NewRecorder()
	h.CreateAbsence(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteAbsence_ForeignOwner_ReturnsNotFound(t *testing.T) {
	t.Parallel()

	absences := &mockAbsenceRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.AbsenceRange, error) {
			return &model.AbsenceRange{ID: id, UserID: "user:999", StartsOn: "2025-07-01", EndsOn: "2025-07-02"}, nil
		},
	}
	h := newTestGameTimeHandler(gameTimeDeps{absences: absences})

	req := withUserContext(httptest.NewRequest(http.MethodDelete, "/v1/game-time/absences/absence:1", nil), "user:123")
	req.SetPathValue("absenceId", "absence:1")
	w := httptest.NewRecorder()
	h.DeleteAbsence(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

// ============================================================================
// Composite View Tests
// ============================================================================

func TestGetComposite_MergesLayers(t *testing.T) {
	t.Parallel()

	weekStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // Monday
	slots := &mockSlotRepo{
		slots: []*model.TemplateSlot{
			{ID: "slot:1", UserID: "user:123", DayOfWeek: 0, Hour: 10, Status: model.SlotStatusAvailable},
			{ID: "slot:2", UserID: "user:123", DayOfWeek: 1, Hour: 10, Status: model.SlotStatusPreferred},
		},
	}
	signups := &mockSignupRepo{
		listCommittedEventsFunc: func(ctx context.Context, userID string, from, to time.Time) ([]*model.Event, error) {
			starts := weekStart.Add(12 * time.Hour) // Monday 12:00
			return []*model.Event{
				{ID: "event:1", StartsAt: starts, EndsAt: starts.Add(2 * time.Hour)},
			}, nil
		},
	}
	overrides := &mockOverrideRepo{
		listRangeFunc: func(ctx context.Context, userID, from, to string) ([]*model.SlotOverride, error) {
			return []*model.SlotOverride{
				{ID: "override:1", UserID: userID, Date: "2025-03-04", Cells: []model.OverrideCell{
					{Hour: 10, Status: model.OverrideUnavailable},
				}},
			}, nil
		},
	}
	h := newTestGameTimeHandler(gameTimeDeps{slots: slots, signups: signups, overrides: overrides})

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/game-time/composite?start=2025-03-03", nil), "user:123")
	w := httptest.NewRecorder()
	h.GetComposite(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp DataResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("failed to re-encode data: %v", err)
	}
	var view model.CompositeView
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("failed to parse composite view: %v", err)
	}

	if view.WeekStart != "2025-03-03" {
		t.Errorf("expected week start 2025-03-03, got %s", view.WeekStart)
	}
	if got := view.Days[0].Hours[10]; got.State != model.CellAvailable || got.Source != model.SourceTemplate {
		t.Errorf("expected template cell at Monday 10:00, got %+v", got)
	}
	if got := view.Days[0].Hours[12]; got.State != model.CellCommitted || got.EventID == nil {
		t.Errorf("expected committed cell at Monday 12:00, got %+v", got)
	}
	if got := view.Days[1].Hours[10]; got.State != model.CellUnavailable || got.Source != model.SourceOverride {
		t.Errorf("expected override to beat template at Tuesday 10:00, got %+v", got)
	}
	if got := view.Days[3].Hours[3]; got.State != model.CellFree {
		t.Errorf("expected untouched cell to stay free, got %+v", got)
	}
}

func TestGetComposite_StartNotAMonday_ReturnsBadRequest(t *testing.T) {
	t.Parallel()

	h := newTestGameTimeHandler(gameTimeDeps{})

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/game-time/composite?start=2025-03-05", nil), "user:123")
	w := httptest.NewRecorder()
	h.GetComposite(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	problem := parseErrorResponse(t, w.Body.Bytes())
	if problem.Status != http.StatusBadRequest {
		t.Errorf("expected problem status 400, got %d", problem.Status)
	}
}
