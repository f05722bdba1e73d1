package standup

import (
	"reflect"
	"testing"
)

func TestAddParticipantIdempotent(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	if got := r.AddParticipant(1, "alice"); got != OutcomeAdded {
		t.Fatalf("first add: got %v, want %v", got, OutcomeAdded)
	}
	if got := r.AddParticipant(1, "alice"); got != OutcomeAlreadyPresent {
		t.Fatalf("second add: got %v, want %v", got, OutcomeAlreadyPresent)
	}
	if n := r.ParticipantCount(1); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestRemoveParticipant(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.AddParticipant(1, "alice")

	if got := r.RemoveParticipant(1, "alice"); got != OutcomeRemoved {
		t.Fatalf("remove: got %v, want %v", got, OutcomeRemoved)
	}
	if got := r.RemoveParticipant(1, "alice"); got != OutcomeNotPresent {
		t.Fatalf("remove again: got %v, want %v", got, OutcomeNotPresent)
	}
	// Unseen chat behaves as empty, no entry is created.
	if got := r.RemoveParticipant(99, "bob"); got != OutcomeNotPresent {
		t.Fatalf("remove from unseen chat: got %v, want %v", got, OutcomeNotPresent)
	}
	if convs := r.AllConversations(); len(convs) != 1 || convs[0] != 1 {
		t.Fatalf("conversations = %v, want [1]", convs)
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.AddParticipant(1, "alice")
	r.RemoveParticipant(1, "alice")
	if got := r.AddParticipant(1, "alice"); got != OutcomeAdded {
		t.Fatalf("re-add after remove: got %v, want %v", got, OutcomeAdded)
	}
}

func TestParticipantsSorted(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	for _, h := range []string{"zoe", "alice", "mike"} {
		r.AddParticipant(1, h)
	}

	want := []string{"alice", "mike", "zoe"}
	if got := r.Participants(1); !reflect.DeepEqual(got, want) {
		t.Fatalf("participants = %v, want %v", got, want)
	}
	if got := r.Participants(2); got != nil {
		t.Fatalf("participants of unseen chat = %v, want nil", got)
	}
}

func TestSetEnabled(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	if !r.IsEnabled(1) {
		t.Fatal("unseen chat should default to enabled")
	}
	if got := r.SetEnabled(1, true); got != OutcomeUnchanged {
		t.Fatalf("enable when enabled: got %v, want %v", got, OutcomeUnchanged)
	}
	if got := r.SetEnabled(1, false); got != OutcomeChanged {
		t.Fatalf("disable: got %v, want %v", got, OutcomeChanged)
	}
	if got := r.SetEnabled(1, false); got != OutcomeUnchanged {
		t.Fatalf("disable again: got %v, want %v", got, OutcomeUnchanged)
	}
	if r.IsEnabled(1) {
		t.Fatal("chat should be disabled")
	}
	if got := r.SetEnabled(1, true); got != OutcomeChanged {
		t.Fatalf("re-enable: got %v, want %v", got, OutcomeChanged)
	}
	// Disabling never adds to the conversation index.
	r.SetEnabled(42, false)
	if convs := r.AllConversations(); len(convs) != 0 {
		t.Fatalf("conversations = %v, want none", convs)
	}
}
