package standup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"standupbot/pkg/logx"
)

// TriggerConfig describes when the standup fires.
type TriggerConfig struct {
	// Time is the local fire time as "HH:MM".
	Time string
	// Timezone is the IANA zone the fire time is evaluated in.
	Timezone string
	// Days lists weekday names; empty means Mon-Fri.
	Days []string
	// Holidays lists "2006-01-02" dates on which the fire is suppressed.
	Holidays []string
}

type trigger struct {
	sched    cron.Schedule
	loc      *time.Location
	calendar Calendar
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func compileTrigger(cfg TriggerConfig) (trigger, error) {
	if cfg.Time == "" {
		cfg.Time = "18:00"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}
	hour, minute, err := parseHHMM(cfg.Time)
	if err != nil {
		return trigger{}, err
	}
	days, err := ParseWeekdays(cfg.Days)
	if err != nil {
		return trigger{}, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return trigger{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	sched, err := cronParser.Parse(cronSpec(hour, minute, days))
	if err != nil {
		return trigger{}, err
	}
	cal, err := NewDateSet(cfg.Holidays, loc)
	if err != nil {
		return trigger{}, err
	}
	return trigger{sched: sched, loc: loc, calendar: cal}, nil
}

// Scheduler owns the fire loop. It wakes at each next-fire instant,
// broadcasts to every active conversation, then advances past the fire so
// the same instant never fires twice.
type Scheduler struct {
	reg *Registry
	bc  *Broadcaster
	log logx.Logger

	mu   sync.RWMutex
	trig trigger

	wake chan struct{}
}

func NewScheduler(reg *Registry, bc *Broadcaster, cfg TriggerConfig, log logx.Logger) (*Scheduler, error) {
	trig, err := compileTrigger(cfg)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		reg:  reg,
		bc:   bc,
		log:  log,
		trig: trig,
		wake: make(chan struct{}, 1),
	}, nil
}

// Apply installs a new trigger and nudges the loop to recompute its timer.
func (s *Scheduler) Apply(cfg TriggerConfig) error {
	trig, err := compileTrigger(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.trig = trig
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// NextFire returns the first fire instant strictly after the given time.
func (s *Scheduler) NextFire(after time.Time) time.Time {
	s.mu.RLock()
	trig := s.trig
	s.mu.RUnlock()
	return trig.sched.Next(after.In(trig.loc))
}

// Run blocks until ctx is cancelled. Fire errors are logged, never fatal.
func (s *Scheduler) Run(ctx context.Context) error {
	after := time.Now()
	for {
		next := s.NextFire(after)
		s.log.Debug("standup scheduled", logx.Time("next_fire", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-s.wake:
			timer.Stop()
			// A reload can move the fire time behind the clock; advance the
			// anchor so today's already-passed instant does not fire again.
			after = advanceAnchor(after, time.Now())
			continue
		case <-timer.C:
		}

		s.firePass(ctx, next)
		// Anchor on the clock, not the fire instant, so a long pass or a
		// suspended host does not replay missed days.
		after = advanceAnchor(next, time.Now())
	}
}

func advanceAnchor(anchor, now time.Time) time.Time {
	if now.After(anchor) {
		return now
	}
	return anchor
}

func (s *Scheduler) firePass(ctx context.Context, at time.Time) {
	s.mu.RLock()
	cal := s.trig.calendar
	s.mu.RUnlock()

	if cal != nil && cal.IsHoliday(at) {
		s.log.Info("standup suppressed, holiday", logx.Time("fire", at))
		return
	}

	var sent, failed, skipped int
	for _, chatID := range s.reg.AllConversations() {
		if ctx.Err() != nil {
			return
		}
		if !s.reg.IsEnabled(chatID) {
			skipped++
			continue
		}
		handles := s.reg.Participants(chatID)
		if len(handles) == 0 {
			skipped++
			continue
		}
		if err := s.bc.Broadcast(ctx, chatID, handles); err != nil {
			failed++
			s.log.Error("standup send failed", logx.Int64("chat_id", chatID), logx.Err(err))
			continue
		}
		sent++
	}
	s.log.Info("standup fired",
		logx.Time("fire", at),
		logx.Int("sent", sent),
		logx.Int("failed", failed),
		logx.Int("skipped", skipped))
}
