package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	authgate "github.com/authgate-dev/authgate"
	"github.com/authgate-dev/authgate/directory"
	"github.com/authgate-dev/authgate/password"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	hasher, err := password.NewArgon2(password.Params{
		MemoryKB:    8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}

	cfg := authgate.Config{
		Strategy:      authgate.StrategySession,
		ExcludedPaths: DefaultExcludedPaths,
		Session: authgate.SessionConfig{
			CookieName: authgate.DefaultSessionCookieName,
		},
		Password: authgate.PasswordConfig{
			MemoryKB:    8 * 1024,
			Time:        1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   16,
		},
	}

	svc, err := authgate.New().
		WithConfig(cfg).
		WithDirectory(directory.NewMemory()).
		WithPasswordHasher(hasher).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(svc.Close)

	return NewServer(svc, "", nil).Handler()
}

func postForm(handler http.Handler, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func get(handler http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == authgate.DefaultSessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in %v", rec.Header())
	return nil
}

func TestPublicEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(handler, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Bienvenue" {
		t.Fatalf("GET / body = %v", body)
	}

	rec = get(handler, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /status status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "OK" {
		t.Fatalf("GET /status body = %v", body)
	}

	if rec = get(handler, "/metrics", nil); rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
}

func TestRegisterLoginProfileLogout(t *testing.T) {
	handler := newTestHandler(t)
	creds := url.Values{"email": {"alice@example.com"}, "password": {"s3cret"}}

	// Protected path before any credentials exist.
	if rec := get(handler, "/profile", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /profile without cookie = %d, want 401", rec.Code)
	}

	rec := postForm(handler, http.MethodPost, "/users", creds, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "user created" || body["email"] != "alice@example.com" {
		t.Fatalf("register body = %v", body)
	}

	rec = postForm(handler, http.MethodPost, "/users", creds, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "email already registered" {
		t.Fatalf("duplicate register body = %v", body)
	}

	wrong := url.Values{"email": {"alice@example.com"}, "password": {"nope"}}
	if rec = postForm(handler, http.MethodPost, "/sessions", wrong, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with wrong password = %d, want 401", rec.Code)
	}

	rec = postForm(handler, http.MethodPost, "/sessions", creds, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "logged in" {
		t.Fatalf("login body = %v", body)
	}
	cookie := sessionCookie(t, rec)

	rec = get(handler, "/profile", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /profile status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["email"] != "alice@example.com" {
		t.Fatalf("profile body = %v", body)
	}

	// A cookie that does not map to a live session is presented evidence
	// that fails to resolve.
	bogus := &http.Cookie{Name: cookie.Name, Value: "not-a-session"}
	if rec = get(handler, "/profile", bogus); rec.Code != http.StatusForbidden {
		t.Fatalf("GET /profile with bogus cookie = %d, want 403", rec.Code)
	}

	rec = postForm(handler, http.MethodDelete, "/sessions", nil, cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("logout status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("logout redirect = %q, want /", loc)
	}
	cleared := sessionCookie(t, rec)
	if cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Fatalf("logout did not clear cookie: %+v", cleared)
	}

	// The session is gone, so both logout and profile now fail.
	if rec = postForm(handler, http.MethodDelete, "/sessions", nil, cookie); rec.Code != http.StatusForbidden {
		t.Fatalf("second logout = %d, want 403", rec.Code)
	}
	if rec = get(handler, "/profile", cookie); rec.Code != http.StatusForbidden {
		t.Fatalf("GET /profile after logout = %d, want 403", rec.Code)
	}
}

func TestLogoutWithoutCookie(t *testing.T) {
	handler := newTestHandler(t)
	if rec := postForm(handler, http.MethodDelete, "/sessions", nil, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("logout without cookie = %d, want 403", rec.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	handler := newTestHandler(t)
	creds := url.Values{"email": {"bob@example.com"}, "password": {"old-pass"}}

	if rec := postForm(handler, http.MethodPost, "/users", creds, nil); rec.Code != http.StatusOK {
		t.Fatalf("register status = %d", rec.Code)
	}

	// Unknown email cannot start a reset.
	unknown := url.Values{"email": {"ghost@example.com"}}
	if rec := postForm(handler, http.MethodPost, "/reset_password", unknown, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("reset request for unknown email = %d, want 403", rec.Code)
	}

	rec := postForm(handler, http.MethodPost, "/reset_password", url.Values{"email": {"bob@example.com"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset request status = %d", rec.Code)
	}
	token := decodeBody(t, rec)["reset_token"]
	if token == "" {
		t.Fatal("no reset token in response")
	}

	apply := url.Values{
		"email":        {"bob@example.com"},
		"reset_token":  {token},
		"new_password": {"new-pass"},
	}
	rec = postForm(handler, http.MethodPut, "/reset_password", apply, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset apply status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "Password updated" {
		t.Fatalf("reset apply body = %v", body)
	}

	// The token is single use.
	if rec = postForm(handler, http.MethodPut, "/reset_password", apply, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("token reuse = %d, want 403", rec.Code)
	}

	// Old password no longer works, the new one does.
	if rec = postForm(handler, http.MethodPost, "/sessions", creds, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with old password = %d, want 401", rec.Code)
	}
	newCreds := url.Values{"email": {"bob@example.com"}, "password": {"new-pass"}}
	if rec = postForm(handler, http.MethodPost, "/sessions", newCreds, nil); rec.Code != http.StatusOK {
		t.Fatalf("login with new password = %d", rec.Code)
	}
}
