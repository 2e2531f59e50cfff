package services

import (
	"errors"
	"testing"
	"time"
)

func TestValidateSessionWindow(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid future window", now.Add(time.Hour), now.Add(2 * time.Hour), false},
		{"starts in the past", now.Add(-time.Hour), now.Add(time.Hour), true},
		{"starts right now", now, now.Add(time.Hour), true},
		{"ends before it starts", now.Add(2 * time.Hour), now.Add(time.Hour), true},
		{"zero length", now.Add(time.Hour), now.Add(time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSessionWindow(now, tc.start, tc.end)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSchedule) {
					t.Fatalf("expected ErrInvalidSchedule, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}
