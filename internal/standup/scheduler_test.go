package standup

import (
	"context"
	"errors"
	"testing"
	"time"

	"standupbot/pkg/logx"
)

func newTestScheduler(t *testing.T, reg *Registry, bc *Broadcaster, cfg TriggerConfig) *Scheduler {
	t.Helper()
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	s, err := NewScheduler(reg, bc, cfg, logx.Nop())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return s
}

func TestNextFireSkipsWeekend(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, NewRegistry(), nil, TriggerConfig{Time: "18:00"})

	// 2026-08-29 is a Saturday.
	after := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	got := s.NextFire(after)
	want := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextFire = %v, want %v", got, want)
	}
}

func TestNextFireStrictlyAfter(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, NewRegistry(), nil, TriggerConfig{Time: "09:00"})

	fire := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC) // Monday
	next := s.NextFire(fire)
	if !next.After(fire) {
		t.Fatalf("NextFire(%v) = %v, want strictly after", fire, next)
	}
	want := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("NextFire = %v, want %v", next, want)
	}
}

func TestNextFireCustomDays(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, NewRegistry(), nil, TriggerConfig{Time: "10:00", Days: []string{"tue", "thu"}})

	after := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) // Monday noon
	want := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)   // Tuesday
	if got := s.NextFire(after); !got.Equal(want) {
		t.Fatalf("NextFire = %v, want %v", got, want)
	}
}

func TestFirePassBroadcastsToActiveChats(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.AddParticipant(1, "alice")
	reg.AddParticipant(1, "bob")
	reg.AddParticipant(2, "carol")
	reg.SetEnabled(2, false) // disabled, skipped
	reg.AddParticipant(3, "dave")
	reg.RemoveParticipant(3, "dave") // empty, skipped

	ad := &fakeAdapter{}
	bc := NewBroadcaster(ad, nil, BroadcastConfig{Header: "#standup", RatePerSec: 1000}, logx.Nop())
	s := newTestScheduler(t, reg, bc, TriggerConfig{Time: "18:00"})

	s.firePass(context.Background(), time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC))

	if msgs := ad.sentTo(1); len(msgs) != 1 || msgs[0] != "#standup\n@alice @bob" {
		t.Fatalf("chat 1 sent = %v", msgs)
	}
	if msgs := ad.sentTo(2); len(msgs) != 0 {
		t.Fatalf("disabled chat got %v", msgs)
	}
	if msgs := ad.sentTo(3); len(msgs) != 0 {
		t.Fatalf("empty chat got %v", msgs)
	}
}

func TestFirePassHolidaySuppressesAll(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.AddParticipant(1, "alice")

	ad := &fakeAdapter{}
	bc := NewBroadcaster(ad, nil, BroadcastConfig{RatePerSec: 1000}, logx.Nop())
	s := newTestScheduler(t, reg, bc, TriggerConfig{Time: "18:00", Holidays: []string{"2026-08-31"}})

	s.firePass(context.Background(), time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC))

	if len(ad.sentTo(1)) != 0 {
		t.Fatal("holiday fire should send nothing")
	}
}

func TestFirePassIsolatesChatFailure(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.AddParticipant(1, "alice")
	reg.AddParticipant(2, "bob")

	ad := &fakeAdapter{failOn: map[int64]error{1: errors.New("kicked")}}
	bc := NewBroadcaster(ad, nil, BroadcastConfig{RatePerSec: 1000}, logx.Nop())
	s := newTestScheduler(t, reg, bc, TriggerConfig{Time: "18:00"})

	s.firePass(context.Background(), time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC))

	if len(ad.sentTo(2)) != 1 {
		t.Fatal("failure in one chat must not block the others")
	}
}

func TestApplyRejectsBadConfig(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, NewRegistry(), nil, TriggerConfig{Time: "18:00"})
	if err := s.Apply(TriggerConfig{Time: "25:00", Timezone: "UTC"}); err == nil {
		t.Fatal("want error for invalid time")
	}
	// The previous trigger stays installed.
	after := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	want := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	if got := s.NextFire(after); !got.Equal(want) {
		t.Fatalf("NextFire = %v, want %v", got, want)
	}
}

func TestReloadDoesNotRefireSameDay(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, NewRegistry(), nil, TriggerConfig{Time: "18:00"})
	if err := s.Apply(TriggerConfig{Time: "18:30", Timezone: "UTC"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// 18:00 fired on Monday; the reload lands at 19:00 with the fire time
	// moved to 18:30, which is already behind the clock.
	fired := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC)

	anchor := advanceAnchor(fired, now)
	if !anchor.Equal(now) {
		t.Fatalf("anchor = %v, want %v", anchor, now)
	}
	next := s.NextFire(anchor)
	want := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("NextFire = %v, want %v", next, want)
	}

	// Without the advance the recomputed instant sits in the past.
	if stale := s.NextFire(fired); !stale.Before(now) {
		t.Fatalf("stale anchor next = %v, want before %v", stale, now)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	bc := NewBroadcaster(&fakeAdapter{}, nil, BroadcastConfig{}, logx.Nop())
	s := newTestScheduler(t, reg, bc, TriggerConfig{Time: "18:00"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
