package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockPrefRepo struct {
	listByUserFunc func(ctx context.Context, userID string) ([]*model.UserPreference, error)
	getFunc        func(ctx context.Context, userID, key string) (*model.UserPreference, error)
	upsertFunc     func(ctx context.Context, userID, key, value string) (*model.UserPreference, error)
	deleteFunc     func(ctx context.Context, userID, key string) error
}

func (m *mockPrefRepo) ListByUser(ctx context.Context, userID string) ([]*model.UserPreference, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPrefRepo) Get(ctx context.Context, userID, key string) (*model.UserPreference, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, key)
	}
	return nil, nil
}

func (m *mockPrefRepo) Upsert(ctx context.Context, userID, key, value string) (*model.UserPreference, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, userID, key, value)
	}
	return &model.UserPreference{UserID: userID, Key: key, Value: value}, nil
}

func (m *mockPrefRepo) Delete(ctx context.Context, userID, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, key)
	}
	return nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func newTestUserService(userRepo *mockUserRepo, prefRepo *mockPrefRepo) *UserService {
	if userRepo == nil {
		userRepo = newMockUserRepo()
	}
	if prefRepo == nil {
		prefRepo = &mockPrefRepo{}
	}
	return NewUserService(UserServiceConfig{
		UserRepo: userRepo,
		PrefRepo: prefRepo,
	})
}

// ============================================================================
// UpdateProfile Tests
// ============================================================================

func TestUpdateProfile_UsernameAndTimezone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMockUserRepo()
	seeded := repo.seed("player@example.com", "frostbolt", "pw")
	svc := newTestUserService(repo, nil)

	username := "icelance"
	timezone := "Europe/Berlin"
	user, err := svc.UpdateProfile(ctx, seeded.ID, &model.UpdateUserRequest{
		Username: &username,
		Timezone: &timezone,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Username != "icelance" {
		t.Errorf("expected updated username, got %q", user.Username)
	}
	if user.Timezone != "Europe/Berlin" {
		t.Errorf("expected updated timezone, got %q", user.Timezone)
	}
}

func TestUpdateProfile_LinkDiscord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMockUserRepo()
	seeded := repo.seed("player@example.com", "frostbolt", "pw")
	svc := newTestUserService(repo, nil)

	discordID := "123456789012345678"
	user, err := svc.UpdateProfile(ctx, seeded.ID, &model.UpdateUserRequest{DiscordID: &discordID})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.DiscordID == nil || *user.DiscordID != discordID {
		t.Errorf("expected discord link, got %v", user.DiscordID)
	}
}

func TestUpdateProfile_ClearDiscord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMockUserRepo()
	seeded := repo.seed("player@example.com", "frostbolt", "pw")
	linked := "123456789012345678"
	seeded.DiscordID = &linked
	repo.discordIndex[linked] = seeded
	svc := newTestUserService(repo, nil)

	empty := ""
	user, err := svc.UpdateProfile(ctx, seeded.ID, &model.UpdateUserRequest{DiscordID: &empty})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.DiscordID != nil {
		t.Errorf("expected discord link cleared, got %v", *user.DiscordID)
	}
}

func TestUpdateProfile_DiscordAlreadyLinked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMockUserRepo()
	other := repo.seed("other@example.com", "otherguy", "pw")
	taken := "123456789012345678"
	other.DiscordID = &taken
	repo.discordIndex[taken] = other
	seeded := repo.seed("player@example.com", "frostbolt", "pw")
	svc := newTestUserService(repo, nil)

	_, err := svc.UpdateProfile(ctx, seeded.ID, &model.UpdateUserRequest{DiscordID: &taken})
	if !errors.Is(err, ErrDiscordIDLinked) {
		t.Errorf("expected ErrDiscordIDLinked, got %v", err)
	}
}

func TestUpdateProfile_NoChangesReturnsCurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMockUserRepo()
	seeded := repo.seed("player@example.com", "frostbolt", "pw")
	svc := newTestUserService(repo, nil)

	user, err := svc.UpdateProfile(ctx, seeded.ID, &model.UpdateUserRequest{})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Username != "frostbolt" {
		t.Errorf("expected unchanged user back, got %q", user.Username)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestUserService(newMockUserRepo(), nil)

	username := "ghost"
	_, err := svc.UpdateProfile(ctx, "user:missing", &model.UpdateUserRequest{Username: &username})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// ============================================================================
// Preference Tests
// ============================================================================

func TestPutPreference_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestUserService(nil, nil)

	pref, err := svc.PutPreference(ctx, "user:1", "ui.theme", "dark")
	if err != nil {
		t.Fatalf("PutPreference failed: %v", err)
	}
	if pref.Key != "ui.theme" || pref.Value != "dark" {
		t.Errorf("unexpected preference %+v", pref)
	}
}

func TestPutPreference_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestUserService(nil, nil)

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"empty key", "  ", "dark", ErrPreferenceKeyRequired},
		{"long key", strings.Repeat("k", model.MaxPreferenceKeyLength+1), "dark", ErrPreferenceKeyTooLong},
		{"uppercase key", "Theme", "dark", ErrPreferenceKeyInvalid},
		{"spaced key", "ui theme", "dark", ErrPreferenceKeyInvalid},
		{"long value", "ui.theme", strings.Repeat("v", model.MaxPreferenceValueLength+1), ErrPreferenceValueTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PutPreference(ctx, "user:1", tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDeletePreference_Absent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestUserService(nil, &mockPrefRepo{
		deleteFunc: func(ctx context.Context, userID, key string) error {
			return database.ErrNotFound
		},
	})

	err := svc.DeletePreference(ctx, "user:1", "ui.theme")
	if !errors.Is(err, ErrPreferenceNotFound) {
		t.Errorf("expected ErrPreferenceNotFound, got %v", err)
	}
}
