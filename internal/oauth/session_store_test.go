package oauth

import (
	"testing"
)

func testIdentity(login string) *Identity {
	return &Identity{ID: 42, Login: login, Name: "Test User"}
}

func testToken() *Token {
	return &Token{AccessToken: "gho_test_token", TokenType: "bearer", Scope: "read:user"}
}

func TestSessionStoreCreate(t *testing.T) {
	store := NewSessionStore()

	session := store.Create(testIdentity("octocat"), testToken())
	if session.ID == "" {
		t.Fatal("Create() returned session with empty ID")
	}
	if session.Identity.Login != "octocat" {
		t.Errorf("Identity.Login = %q, want octocat", session.Identity.Login)
	}
	if session.AccessToken.Value() != "gho_test_token" {
		t.Error("AccessToken does not round-trip through the store")
	}
	if session.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	got := store.Get(session.ID)
	if got != session {
		t.Error("Get() did not return the created session")
	}
}

func TestSessionStoreCreateUniqueIDs(t *testing.T) {
	store := NewSessionStore()

	a := store.Create(testIdentity("a"), testToken())
	b := store.Create(testIdentity("b"), testToken())
	if a.ID == b.ID {
		t.Errorf("two sessions share ID %q", a.ID)
	}
}

func TestSessionStoreGetMissing(t *testing.T) {
	store := NewSessionStore()

	if got := store.Get("no-such-session"); got != nil {
		t.Errorf("Get() = %v for missing session, want nil", got)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(testIdentity("octocat"), testToken())

	store.Delete(session.ID)
	if store.Get(session.ID) != nil {
		t.Error("Get() returned a deleted session")
	}

	// Deleting again must not panic or error.
	store.Delete(session.ID)
}

func TestSessionStoreDeleteClearsCurrent(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(testIdentity("octocat"), testToken())
	store.SetCurrent(session.ID)

	store.Delete(session.ID)
	if store.Current() != nil {
		t.Error("Current() non-nil after deleting the current session")
	}
}

func TestSessionStoreDeleteAll(t *testing.T) {
	store := NewSessionStore()
	store.Create(testIdentity("a"), testToken())
	s := store.Create(testIdentity("b"), testToken())
	store.SetCurrent(s.ID)

	if got := store.DeleteAll(); got != 2 {
		t.Errorf("DeleteAll() = %d, want 2", got)
	}
	if store.Count() != 0 {
		t.Errorf("Count() = %d after DeleteAll, want 0", store.Count())
	}
	if store.Current() != nil {
		t.Error("Current() non-nil after DeleteAll")
	}

	if got := store.DeleteAll(); got != 0 {
		t.Errorf("DeleteAll() on empty store = %d, want 0", got)
	}
}

func TestSessionStoreCurrent(t *testing.T) {
	store := NewSessionStore()

	if store.Current() != nil {
		t.Error("Current() non-nil on empty store")
	}

	first := store.Create(testIdentity("first"), testToken())
	second := store.Create(testIdentity("second"), testToken())

	if !store.SetCurrent(first.ID) {
		t.Fatal("SetCurrent() = false for existing session")
	}
	if got := store.Current(); got != first {
		t.Error("Current() did not return the session set as current")
	}

	// The slot holds exactly one session.
	store.SetCurrent(second.ID)
	if got := store.Current(); got != second {
		t.Error("Current() did not follow SetCurrent to the second session")
	}
	if store.Get(first.ID) == nil {
		t.Error("replacing the current session must not delete the previous one")
	}
}

func TestSessionStoreSetCurrentMissing(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(testIdentity("octocat"), testToken())
	store.SetCurrent(session.ID)

	if store.SetCurrent("no-such-session") {
		t.Error("SetCurrent() = true for missing session")
	}
	if got := store.Current(); got != session {
		t.Error("failed SetCurrent must leave the current pointer unchanged")
	}
}

func TestSessionStoreAll(t *testing.T) {
	store := NewSessionStore()

	if got := store.All(); len(got) != 0 {
		t.Errorf("All() = %d sessions on empty store, want 0", len(got))
	}

	a := store.Create(testIdentity("a"), testToken())
	b := store.Create(testIdentity("b"), testToken())

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d sessions, want 2", len(all))
	}
	seen := map[string]bool{}
	for _, s := range all {
		seen[s.ID] = true
	}
	if !seen[a.ID] || !seen[b.ID] {
		t.Errorf("All() missing a created session: %v", seen)
	}
}

func TestSessionStoreClearCurrent(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(testIdentity("octocat"), testToken())
	store.SetCurrent(session.ID)

	store.ClearCurrent()
	if store.Current() != nil {
		t.Error("Current() non-nil after ClearCurrent")
	}
	if store.Get(session.ID) == nil {
		t.Error("ClearCurrent must not delete the session")
	}
}
