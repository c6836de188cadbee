package model

import (
	"testing"
	"time"
)

func TestClassifyWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name      string
		published bool
		start     *time.Time
		end       *time.Time
		want      WindowState
	}{
		{"unpublished is draft", false, &before, &after, WindowDraft},
		{"unpublished with no bounds is draft", false, nil, nil, WindowDraft},
		{"published before start is scheduled", true, &after, nil, WindowScheduled},
		{"published inside window is live", true, &before, &after, WindowLive},
		{"published after end is closed", true, nil, &before, WindowClosed},
		{"nil start skips scheduled phase", true, nil, &after, WindowLive},
		{"nil end never closes", true, &before, nil, WindowLive},
		{"both bounds nil is live", true, nil, nil, WindowLive},
		{"start exactly now is live", true, &now, &after, WindowLive},
		{"end exactly now is live", true, &before, &now, WindowLive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyWindow(tt.published, tt.start, tt.end, now)
			if got != tt.want {
				t.Errorf("ClassifyWindow() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWindowBoundsOrdered(t *testing.T) {
	early := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	late := early.Add(8 * time.Hour)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  bool
	}{
		{"both nil", nil, nil, true},
		{"start only", &early, nil, true},
		{"end only, no start", nil, &late, true},
		{"start before end", &early, &late, true},
		{"equal bounds are a valid single-instant window", &early, &early, true},
		{"end before start", &late, &early, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowBoundsOrdered(tt.start, tt.end); got != tt.want {
				t.Errorf("WindowBoundsOrdered() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTestWindowStateFollowsClock(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	test := &Test{Published: true, PublishStart: &start, PublishEnd: &end}

	if got := test.WindowState(start.Add(-time.Minute)); got != WindowScheduled {
		t.Errorf("before start = %s, want SCHEDULED", got)
	}
	if got := test.WindowState(start.Add(time.Minute)); got != WindowLive {
		t.Errorf("inside window = %s, want LIVE", got)
	}
	if got := test.WindowState(end.Add(time.Minute)); got != WindowClosed {
		t.Errorf("after end = %s, want CLOSED", got)
	}
}
