package standup

import (
	"sort"
	"sync"
)

// Outcome reports what a registry mutation actually did. The no-op variants
// (AlreadyPresent, NotPresent, Unchanged) are expected idempotent results,
// not errors.
type Outcome int

const (
	OutcomeAdded Outcome = iota
	OutcomeAlreadyPresent
	OutcomeRemoved
	OutcomeNotPresent
	OutcomeChanged
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeAlreadyPresent:
		return "already-present"
	case OutcomeRemoved:
		return "removed"
	case OutcomeNotPresent:
		return "not-present"
	case OutcomeChanged:
		return "changed"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Registry is the authoritative in-memory store of per-chat participant
// sets and enabled flags. All methods are safe for concurrent use; a
// reader never observes a half-applied mutation.
//
// A chat enters the conversation index on its first AddParticipant and is
// never removed. Reads on unseen chats return defaults (enabled, empty)
// without creating an entry.
type Registry struct {
	mu sync.RWMutex

	// members is the conversation index: chat -> participant set.
	members map[int64]map[string]struct{}

	// disabled holds explicit enable/disable flags; absent means enabled.
	// Kept separate from the index so a /disable in a never-joined chat
	// doesn't fabricate a conversation.
	disabled map[int64]bool
}

func NewRegistry() *Registry {
	return &Registry{
		members:  map[int64]map[string]struct{}{},
		disabled: map[int64]bool{},
	}
}

// AddParticipant inserts handle into the chat's participant set, creating
// the conversation (enabled by default) if this is the first add.
func (r *Registry) AddParticipant(chatID int64, handle string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.members[chatID]
	if set == nil {
		set = map[string]struct{}{}
		r.members[chatID] = set
	}
	if _, ok := set[handle]; ok {
		return OutcomeAlreadyPresent
	}
	set[handle] = struct{}{}
	return OutcomeAdded
}

// RemoveParticipant removes handle if present. Unseen chats behave as an
// empty set; no entry is created.
func (r *Registry) RemoveParticipant(chatID int64, handle string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.members[chatID]
	if set == nil {
		return OutcomeNotPresent
	}
	if _, ok := set[handle]; !ok {
		return OutcomeNotPresent
	}
	delete(set, handle)
	return OutcomeRemoved
}

// SetEnabled sets the chat's reminder flag. Unchanged lets the caller
// suppress a confirmation reply on no-op.
func (r *Registry) SetEnabled(chatID int64, enabled bool) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disabled[chatID] == !enabled {
		return OutcomeUnchanged
	}
	if enabled {
		delete(r.disabled, chatID)
	} else {
		r.disabled[chatID] = true
	}
	return OutcomeChanged
}

// IsEnabled defaults to true for chats never explicitly disabled.
func (r *Registry) IsEnabled(chatID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.disabled[chatID]
}

func (r *Registry) ParticipantCount(chatID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members[chatID])
}

// Participants returns a sorted snapshot of the chat's participant set.
// Sorting keeps composed messages deterministic.
func (r *Registry) Participants(chatID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.members[chatID]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// AllConversations returns a snapshot of every chat that has ever had a
// participant added.
func (r *Registry) AllConversations() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	return out
}
