package services

import (
	"testing"
	"time"
)

func TestWithinNotificationWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  time.Time
		want bool
	}{
		{"already past", now.Add(-time.Hour), false},
		{"due right now", now, false},
		{"due in an hour", now.Add(time.Hour), true},
		{"due in two days", now.AddDate(0, 0, 2), true},
		{"due in exactly three days", now.AddDate(0, 0, 3), true},
		{"due in four days", now.AddDate(0, 0, 4), false},
	}
	for _, c := range cases {
		if got := WithinNotificationWindow(c.due, now); got != c.want {
			t.Fatalf("%s: WithinNotificationWindow = %v, want %v", c.name, got, c.want)
		}
	}
}
