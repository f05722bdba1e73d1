package standup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays maps weekday names ("mon" or "monday", case-insensitive)
// to a deduplicated, sorted weekday set. An empty list means Mon-Fri.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	if len(names) == 0 {
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, nil
	}
	seen := map[time.Weekday]struct{}{}
	out := make([]time.Weekday, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		wd, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", raw)
		}
		if _, dup := seen[wd]; dup {
			continue
		}
		seen[wd] = struct{}{}
		out = append(out, wd)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("weekday list is empty")
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func parseHHMM(s string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minutes in %q", s)
	}
	return h, m, nil
}

// cronSpec renders a 5-field cron expression for "HH:MM on these weekdays".
// Weekday numbering matches time.Weekday (Sunday=0).
func cronSpec(hour, minute int, days []time.Weekday) string {
	dows := make([]string, 0, len(days))
	for _, d := range days {
		dows = append(dows, strconv.Itoa(int(d)))
	}
	return fmt.Sprintf("%d %d * * %s", minute, hour, strings.Join(dows, ","))
}
