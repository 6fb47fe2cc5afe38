package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidClock = errors.New("invalid time of day, expected HH:MM")

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3:04:05 PM", "15:04:05"}

// ParseClock interprets a time of day ("08:00", "10:30 AM", "9:05 am") on the
// calendar date of day, in day's location.
func ParseClock(day time.Time, s string) (time.Time, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		return At(day, t.Hour(), t.Minute()), nil
	}
	return time.Time{}, fmt.Errorf("parse clock %q: %w", s, ErrInvalidClock)
}

// At returns hour:minute on day's calendar date.
func At(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

// FormatClock renders a simulated timestamp the way reports show it.
func FormatClock(t time.Time) string { return t.Format("03:04 PM") }

// Package delivery deadline: either end of day or a specific time.
// The zero value is end of day.
type Deadline struct {
	at time.Time
}

func EndOfDay() Deadline { return Deadline{} }

func DeadlineAt(t time.Time) Deadline { return Deadline{at: t} }

// ParseDeadline accepts "EOD" or a time of day.
func ParseDeadline(day time.Time, s string) (Deadline, error) {
	if strings.EqualFold(strings.TrimSpace(s), "EOD") || strings.TrimSpace(s) == "" {
		return EndOfDay(), nil
	}
	t, err := ParseClock(day, s)
	if err != nil {
		return Deadline{}, fmt.Errorf("parse deadline: %w", err)
	}
	return DeadlineAt(t), nil
}

func (d Deadline) IsEOD() bool { return d.at.IsZero() }

// Time is the zero time for end-of-day deadlines.
func (d Deadline) Time() time.Time { return d.at }

// Met reports whether a delivery at t satisfies the deadline.
func (d Deadline) Met(t time.Time) bool {
	return d.IsEOD() || !t.After(d.at)
}

func (d Deadline) String() string {
	if d.IsEOD() {
		return "EOD"
	}
	return FormatClock(d.at)
}
