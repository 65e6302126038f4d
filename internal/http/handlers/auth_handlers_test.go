package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
	httpx "github.com/you/authsvc/internal/http"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/httperr"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/infrastructure/auth"
	"github.com/you/authsvc/internal/mocks"
	"github.com/you/authsvc/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserStore is an in-memory domain.UserRepository with the same
// uniqueness semantics as the real store
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*domain.UserIdentity
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[string]*domain.UserIdentity)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.UserIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.LoginID]; ok {
		return domain.ErrDuplicateUser
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	user.UserID = s.nextID
	s.nextID++
	stored := *user
	s.users[user.LoginID] = &stored
	return nil
}

func (s *fakeUserStore) FindByLoginID(ctx context.Context, loginID string) (*domain.UserIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[loginID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*domain.UserIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[loginID]
	return ok, nil
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type serverFixture struct {
	router *gin.Engine
	cache  *mocks.MockSessionCache
	store  *fakeUserStore
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	codec := auth.NewJWTCodec("access-secret", "refresh-secret", "authsvc-test", 15*time.Minute, 3000*time.Minute)
	hasher := auth.NewPasswordService()
	store := newFakeUserStore()
	cache := mocks.NewMockSessionCache()
	logger := zap.NewNop()

	authSvc := services.NewAuthService(store, hasher)
	tokenSvc := services.NewTokenService(codec)
	regSvc := services.NewRegistrationService(store, hasher)

	ah := handlers.NewAuthHandlers(authSvc, tokenSvc, regSvc, cache, codec, logger)
	gate := middleware.NewSessionMW(codec, cache, logger)

	return &serverFixture{
		router: httpx.BuildRouter(ah, gate),
		cache:  cache,
		store:  store,
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *serverFixture) register(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodPost, "/auth/register", gin.H{
		"login_id":  "alice",
		"user_name": "Alice",
		"password":  "Passw0rd!",
		"email":     "a@x.com",
		"user_type": 1,
	}, nil)
}

func (f *serverFixture) login(t *testing.T, password string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodPost, "/auth/login", gin.H{
		"login_id": "alice",
		"password": password,
	}, nil)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, w.Body.String())
	}
	return body.Data
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) httperr.Response {
	t.Helper()
	var resp httperr.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestRegister(t *testing.T) {
	f := newServerFixture(t)

	w := f.register(t)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	if data["login_id"] != "alice" {
		t.Errorf("login_id = %v, want alice", data["login_id"])
	}
	if id, ok := data["user_id"].(float64); !ok || id < 1 {
		t.Errorf("user_id = %v, want a store-assigned integer", data["user_id"])
	}

	// Same payload again: duplicate.
	w = f.register(t)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeDuplicateUser {
		t.Errorf("duplicate code = %s, want %s", resp.Code, httperr.CodeDuplicateUser)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodPost, "/auth/register", gin.H{
		"login_id":  "alice",
		"user_name": "Alice",
		"password":  "short",
		"email":     "a@x.com",
		"user_type": 1,
	}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeValidation {
		t.Errorf("code = %s, want %s", resp.Code, httperr.CodeValidation)
	}
}

func TestLogin(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)

	w := f.login(t, "Passw0rd!")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	if data["token_type"] != "bearer" {
		t.Errorf("token_type = %v, want bearer", data["token_type"])
	}
	if data["access_token"] == "" || data["refresh_token"] == "" {
		t.Error("expected non-empty token pair")
	}

	// The session is mirrored into the cache, keyed by login id.
	entry, err := f.cache.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("cache entry missing after login: %v", err)
	}
	if entry.AccessToken != data["access_token"] {
		t.Error("cached access token must match the issued one")
	}

	assertAuthCookies(t, w)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)

	w := f.login(t, "WrongPass!")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	// Anti-enumeration: same failure class as an unknown account.
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeUserNotFound {
		t.Errorf("code = %s, want %s", resp.Code, httperr.CodeUserNotFound)
	}

	if _, err := f.cache.Get(context.Background(), "alice"); err == nil {
		t.Error("failed login must not create a session cache entry")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newServerFixture(t)

	w := f.login(t, "Passw0rd!")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeUserNotFound {
		t.Errorf("code = %s, want %s", resp.Code, httperr.CodeUserNotFound)
	}
}

func TestRefresh(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)

	loginData := decodeData(t, f.login(t, "Passw0rd!"))
	oldAccess := loginData["access_token"].(string)
	refresh := loginData["refresh_token"].(string)

	w := f.do(t, http.MethodGet, "/auth/refresh_token", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	newAccess := data["access_token"].(string)
	if newAccess == "" || newAccess == oldAccess {
		t.Error("refresh must mint a new access token")
	}

	// The cache entry is rewritten with the fresh pair.
	entry, err := f.cache.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("cache entry missing after refresh: %v", err)
	}
	if entry.AccessToken != newAccess {
		t.Error("cached entry must carry the refreshed access token")
	}
}

func TestRefresh_NoToken(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodGet, "/auth/refresh_token", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeNotAuthorized {
		t.Errorf("code = %s, want %s", resp.Code, httperr.CodeNotAuthorized)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)

	loginData := decodeData(t, f.login(t, "Passw0rd!"))
	access := loginData["access_token"].(string)

	// An access token must not work as a refresh token: different secret.
	w := f.do(t, http.MethodGet, "/auth/refresh_token", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: access})
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeInvalidToken {
		t.Errorf("code = %s, want %s", resp.Code, httperr.CodeInvalidToken)
	}
}

func TestRefresh_SessionGone(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)

	loginData := decodeData(t, f.login(t, "Passw0rd!"))
	refresh := loginData["refresh_token"].(string)

	if err := f.cache.Delete(context.Background(), "alice"); err != nil {
		t.Fatalf("cache delete: %v", err)
	}

	// Valid refresh token, but no live session behind it.
	w := f.do(t, http.MethodGet, "/auth/refresh_token", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeUserNotFound {
		t.Errorf("code = %s, want %s", resp.Code, httperr.CodeUserNotFound)
	}
}

func TestLogout(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)

	loginData := decodeData(t, f.login(t, "Passw0rd!"))
	access := loginData["access_token"].(string)

	w := f.do(t, http.MethodPost, "/auth/logout", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access)
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	if _, err := f.cache.Get(context.Background(), "alice"); err == nil {
		t.Error("logout must delete the session cache entry")
	}

	// The old token still decodes and is unexpired, but the gate now fails
	// with a cache miss.
	w = f.do(t, http.MethodGet, "/auth/me", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access)
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout status = %d, want 401", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != httperr.CodeUserNotFound {
		t.Errorf("post-logout code = %s, want %s", resp.Code, httperr.CodeUserNotFound)
	}
}

func TestMe(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)

	loginData := decodeData(t, f.login(t, "Passw0rd!"))
	access := loginData["access_token"].(string)

	w := f.do(t, http.MethodGet, "/auth/me", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access)
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	if data["login_id"] != "alice" || data["email"] != "a@x.com" {
		t.Errorf("me = %v, want alice's snapshot", data)
	}
	if _, ok := data["password"]; ok {
		t.Error("me must never expose password material")
	}
}

func assertAuthCookies(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	cookies := w.Result().Cookies()
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, c := range cookies {
		byName[c.Name] = c
	}

	for _, name := range []string{"token_type", "access_token", "refresh_token"} {
		c, ok := byName[name]
		if !ok {
			t.Errorf("missing %s cookie", name)
			continue
		}
		if !c.HttpOnly || !c.Secure {
			t.Errorf("%s cookie must be HttpOnly and Secure", name)
		}
		if c.SameSite != http.SameSiteStrictMode {
			t.Errorf("%s cookie SameSite = %v, want Strict", name, c.SameSite)
		}
	}

	if c := byName["access_token"]; c != nil && c.MaxAge != 900 {
		t.Errorf("access_token max-age = %d, want 900", c.MaxAge)
	}
	if c := byName["refresh_token"]; c != nil && c.MaxAge != 180000 {
		t.Errorf("refresh_token max-age = %d, want 180000", c.MaxAge)
	}

	for _, line := range w.Header().Values("Set-Cookie") {
		if strings.Contains(line, "Passw0rd") {
			t.Error("cookies must never carry password material")
		}
	}
}
