package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/soumil/jeeprep/internal/domain"
)

type fakeRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	lastSeens int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*domain.User)}
}

func (f *fakeRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	if u == nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) UpsertUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.UserID] = &cp
	return nil
}

func (f *fakeRepo) UpdateLastSeen(_ context.Context, userID string, lastSeen time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeens++
	if u := f.users[userID]; u != nil {
		u.LastSeenAt = lastSeen
	}
	return nil
}

func (f *fakeRepo) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (f *fakeRepo) Set(context.Context, string, string) error         { return nil }
func (f *fakeRepo) Ping(context.Context) error                        { return nil }
func (f *fakeRepo) Close() error                                      { return nil }

func TestNewAnonIDIsValid(t *testing.T) {
	id := newAnonID()
	if !isValidAnonID(id) {
		t.Fatalf("generated id %q is not valid", id)
	}
	if isValidAnonID("anon_xyz") || isValidAnonID("user_0123456789abcdef0123456789abcdef") {
		t.Error("malformed ids must be rejected")
	}
}

func TestSanitizeSessionID(t *testing.T) {
	if got := sanitizeSessionID("tab-1"); got != "tab-1" {
		t.Errorf("got %q, want tab-1", got)
	}
	if got := sanitizeSessionID("bad id!"); got != DefaultSessionIDValue {
		t.Errorf("got %q, want default", got)
	}
	if got := sanitizeSessionID("   "); got != DefaultSessionIDValue {
		t.Errorf("got %q, want default", got)
	}
}

func TestMiddlewareIssuesCookieAndCreatesUser(t *testing.T) {
	repo := newFakeRepo()

	var gotUser, gotSession string
	h := Middleware(repo, true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	req.Header.Set(SessionHeaderName, "tab-7")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if !isValidAnonID(gotUser) {
		t.Fatalf("user id %q not valid", gotUser)
	}
	if gotSession != "tab-7" {
		t.Errorf("session = %q, want tab-7", gotSession)
	}
	if _, ok := repo.users[gotUser]; !ok {
		t.Error("expected user row to be created")
	}

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != gotUser {
		t.Fatalf("cookies = %v", cookies)
	}
}

func TestMiddlewareReusesCookie(t *testing.T) {
	repo := newFakeRepo()
	id := newAnonID()

	var gotUser string
	h := Middleware(repo, true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/?session_id=q-1", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotUser != id {
		t.Errorf("user = %q, want %q", gotUser, id)
	}
}

func TestEnsureUserTouchesIdleUsers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	now := time.Now()

	if err := ensureUser(ctx, repo, "anon_a", now); err != nil {
		t.Fatal(err)
	}
	if err := ensureUser(ctx, repo, "anon_a", now.Add(10*time.Second)); err != nil {
		t.Fatal(err)
	}
	if repo.lastSeens != 0 {
		t.Fatalf("expected no last-seen write within resolution, got %d", repo.lastSeens)
	}

	if err := ensureUser(ctx, repo, "anon_a", now.Add(5*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if repo.lastSeens != 1 {
		t.Errorf("lastSeens = %d, want 1", repo.lastSeens)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	if UserIDFromContext(ctx) != "" {
		t.Error("expected empty user id")
	}
	if SessionIDFromContext(ctx) != DefaultSessionIDValue {
		t.Error("expected default session id")
	}
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	if got := IPFromRequest(req); got != "10.1.2.3" {
		t.Errorf("got %q", got)
	}
	req.RemoteAddr = "weird"
	if got := IPFromRequest(req); got != "weird" {
		t.Errorf("got %q", got)
	}
}
