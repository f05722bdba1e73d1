package standup

import (
	"reflect"
	"testing"
	"time"
)

func TestParseWeekdays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []string
		want    []time.Weekday
		wantErr bool
	}{
		{
			name: "default mon to fri",
			in:   nil,
			want: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		},
		{
			name: "short and long names mixed",
			in:   []string{"Fri", "monday", "WED"},
			want: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},
		{
			name: "duplicates collapse",
			in:   []string{"mon", "monday", "mon"},
			want: []time.Weekday{time.Monday},
		},
		{name: "unknown name", in: []string{"someday"}, wantErr: true},
		{name: "only blanks", in: []string{"", "  "}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseWeekdays(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeekdays: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseHHMM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		h, m    int
		wantErr bool
	}{
		{in: "18:00", h: 18, m: 0},
		{in: "09:30", h: 9, m: 30},
		{in: "0:05", h: 0, m: 5},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		h, m, err := parseHHMM(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseHHMM(%q): want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseHHMM(%q): %v", tt.in, err)
		}
		if h != tt.h || m != tt.m {
			t.Fatalf("parseHHMM(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.h, tt.m)
		}
	}
}

func TestCronSpec(t *testing.T) {
	t.Parallel()

	got := cronSpec(18, 0, []time.Weekday{time.Monday, time.Friday})
	if got != "0 18 * * 1,5" {
		t.Fatalf("cronSpec = %q", got)
	}
}
