package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/soumil/jeeprep/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return repo
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)

	if _, found, err := repo.Get(ctx, "students_helped"); err != nil || found {
		t.Fatalf("Get on empty store = found %v, err %v", found, err)
	}

	if err := repo.Set(ctx, "students_helped", "3"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "students_helped", "4"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	v, found, err := repo.Get(ctx, "students_helped")
	if err != nil || !found {
		t.Fatalf("Get = found %v, err %v", found, err)
	}
	if v != "4" {
		t.Errorf("value = %q, want %q", v, "4")
	}
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)

	user, err := repo.GetUser(ctx, "anon_missing")
	if err != nil || user != nil {
		t.Fatalf("GetUser missing = %v, %v; want nil, nil", user, err)
	}

	now := time.Unix(time.Now().Unix(), 0)
	if err := repo.UpsertUser(ctx, &domain.User{
		UserID:     "anon_1",
		Username:   "anon-1",
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	later := now.Add(time.Hour)
	if err := repo.UpdateLastSeen(ctx, "anon_1", later); err != nil {
		t.Fatalf("UpdateLastSeen: %v", err)
	}

	user, err = repo.GetUser(ctx, "anon_1")
	if err != nil || user == nil {
		t.Fatalf("GetUser = %v, %v", user, err)
	}
	if !user.LastSeenAt.Equal(later) {
		t.Errorf("LastSeenAt = %v, want %v", user.LastSeenAt, later)
	}
	if user.Username != "anon-1" {
		t.Errorf("Username = %q", user.Username)
	}
}

func TestPing(t *testing.T) {
	if err := newTestStore(t).Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
