package standup

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar answers whether reminders are suppressed on a given date.
type Calendar interface {
	IsHoliday(t time.Time) bool
}

// DateSet is a Calendar backed by an explicit list of dates, evaluated in
// a fixed timezone.
type DateSet struct {
	loc  *time.Location
	days map[string]struct{}
}

// NewDateSet parses "YYYY-MM-DD" date strings. A nil loc means UTC.
func NewDateSet(dates []string, loc *time.Location) (*DateSet, error) {
	if loc == nil {
		loc = time.UTC
	}
	days := make(map[string]struct{}, len(dates))
	for _, raw := range dates {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if _, err := time.ParseInLocation(dateLayout, s, loc); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q (want YYYY-MM-DD): %w", raw, err)
		}
		days[s] = struct{}{}
	}
	return &DateSet{loc: loc, days: days}, nil
}

func (d *DateSet) IsHoliday(t time.Time) bool {
	if d == nil || len(d.days) == 0 {
		return false
	}
	_, ok := d.days[t.In(d.loc).Format(dateLayout)]
	return ok
}
