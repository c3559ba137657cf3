package authgate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authgate-dev/authgate/session"
)

func basicRequest(t *testing.T, path, header string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestBasicAuthCurrentPrincipal(t *testing.T) {
	dir := newFakeDirectory()
	principal, err := dir.Insert(context.Background(), "bob@example.com", "hashed:hunter22")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	strategy := NewBasicAuth(NewExcludedPathSet(nil), dir, fakeHasher{})

	got, ok := strategy.CurrentPrincipal(basicRequest(t, "/profile", basicHeader("bob@example.com:hunter22")))
	if !ok {
		t.Fatal("expected principal")
	}
	if got.ID != principal.ID {
		t.Fatalf("resolved %q, want %q", got.ID, principal.ID)
	}

	for name, header := range map[string]string{
		"no header":      "",
		"wrong scheme":   "Bearer abc",
		"wrong password": basicHeader("bob@example.com:nope"),
		"unknown email":  basicHeader("eve@example.com:hunter22"),
	} {
		if _, ok := strategy.CurrentPrincipal(basicRequest(t, "/profile", header)); ok {
			t.Fatalf("%s: unexpectedly resolved a principal", name)
		}
	}
}

func TestSessionAuthCurrentPrincipal(t *testing.T) {
	ctx := context.Background()
	dir := newFakeDirectory()
	principal, err := dir.Insert(ctx, "bob@example.com", "hashed:hunter22")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	store := session.NewMemoryStore(0)
	sessionID, err := store.Create(ctx, principal.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	strategy := NewSessionAuth(NewExcludedPathSet(nil), store, dir, "session_id")

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})

	got, ok := strategy.CurrentPrincipal(r)
	if !ok || got.ID != principal.ID {
		t.Fatalf("resolved (%+v, %v), want principal %q", got, ok, principal.ID)
	}

	// Unknown session id does not resolve.
	r = httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "bogus"})
	if _, ok := strategy.CurrentPrincipal(r); ok {
		t.Fatal("bogus session resolved")
	}

	// A live session whose user vanished does not resolve.
	orphanID, err := store.Create(ctx, "gone")
	if err != nil {
		t.Fatalf("create orphan session: %v", err)
	}
	r = httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: orphanID})
	if _, ok := strategy.CurrentPrincipal(r); ok {
		t.Fatal("orphan session resolved")
	}
}

func TestNoAuthNeverResolves(t *testing.T) {
	strategy := NewNoAuth(NewExcludedPathSet([]string{"/status"}))

	if strategy.RequiresAuth("/status") {
		t.Fatal("excluded path requires auth")
	}
	if !strategy.RequiresAuth("/profile") {
		t.Fatal("protected path does not require auth")
	}
	if _, ok := strategy.CurrentPrincipal(basicRequest(t, "/profile", basicHeader("a:b"))); ok {
		t.Fatal("NoAuth resolved a principal")
	}
}

func TestEvaluateOrdering(t *testing.T) {
	dir := newFakeDirectory()
	if _, err := dir.Insert(context.Background(), "bob@example.com", "hashed:hunter22"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	strategy := NewBasicAuth(NewExcludedPathSet([]string{"/status"}), dir, fakeHasher{})

	// Excluded path: allowed without evidence.
	decision := Evaluate(strategy, basicRequest(t, "/status", ""))
	if !decision.Authenticated || decision.Failure != FailureNone {
		t.Fatalf("excluded path decision = %+v", decision)
	}

	// No evidence: missing credentials, checked before validity.
	decision = Evaluate(strategy, basicRequest(t, "/profile", ""))
	if decision.Authenticated || decision.Failure != FailureMissingCredentials {
		t.Fatalf("no-evidence decision = %+v", decision)
	}

	// Evidence present but unresolvable: invalid credentials.
	decision = Evaluate(strategy, basicRequest(t, "/profile", basicHeader("bob@example.com:wrong")))
	if decision.Authenticated || decision.Failure != FailureInvalidCredentials {
		t.Fatalf("bad-evidence decision = %+v", decision)
	}

	// Valid evidence: allowed with principal.
	decision = Evaluate(strategy, basicRequest(t, "/profile", basicHeader("bob@example.com:hunter22")))
	if !decision.Authenticated || decision.Principal == nil {
		t.Fatalf("valid decision = %+v", decision)
	}
	if decision.Principal.Email != "bob@example.com" {
		t.Fatalf("principal email = %q", decision.Principal.Email)
	}
}
