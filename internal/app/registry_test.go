package app

import (
	"testing"

	"github.com/omEAGRAWAL/peercall/internal/core"
)

func TestRegistry_RegisterAndSnapshotOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "alice")
	r.Register("b", "bob")
	r.Register("c", "carol")

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if snap[i].Username != want {
			t.Fatalf("snapshot[%d] = %q, want %q (join order)", i, snap[i].Username, want)
		}
	}
}

func TestRegistry_RejoinOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "alice")
	r.SetInCall("a", true)
	r.Register("a", "alice2")

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected single entry after re-join, got %d", len(snap))
	}
	if snap[0].Username != "alice2" {
		t.Fatalf("expected most recent name, got %q", snap[0].Username)
	}
	if snap[0].InCall {
		t.Fatalf("re-join must reset the busy flag")
	}
}

func TestRegistry_UnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "alice")
	r.Unregister("a")

	if _, ok := r.Lookup("a"); ok {
		t.Fatalf("lookup after unregister should be absent")
	}

	// Second unregister is a no-op, not an error.
	r.Unregister("a")
	if got := len(r.Snapshot()); got != 0 {
		t.Fatalf("expected empty roster, got %d entries", got)
	}
}

func TestRegistry_SetInCallOnAbsentID(t *testing.T) {
	r := NewRegistry()
	r.SetInCall("ghost", true)
	if got := len(r.Snapshot()); got != 0 {
		t.Fatalf("setInCall must not create entries, got %d", got)
	}
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "alice")

	snap := r.Snapshot()
	snap[0].Username = "mallory"
	snap[0].InCall = true

	u, ok := r.Lookup("a")
	if !ok {
		t.Fatalf("expected entry")
	}
	if u.Username != "alice" || u.InCall {
		t.Fatalf("snapshot mutation leaked into registry: %+v", u)
	}
}

func TestRegistry_UnbindIdempotentAndSessions(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	r.BindSignal("a", c1, nil)
	r.BindSignal("b", c2, nil)

	if got := len(r.Sessions()); got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}

	r.Unbind("a")
	r.Unbind("a")
	if got := len(r.Sessions()); got != 1 {
		t.Fatalf("expected 1 session after unbind, got %d", got)
	}
	if _, ok := r.Session("a"); ok {
		t.Fatalf("unbound session still resolvable")
	}
	if conn, ok := r.Session("b"); !ok || conn != core.SignalConnection(c2) {
		t.Fatalf("remaining session not resolvable")
	}
}
