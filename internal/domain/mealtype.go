package domain

import (
	"errors"
	"fmt"
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// ClockLayout is the wall-clock format used for menu windows.
const ClockLayout = "15:04"

var ErrUnsupportedMealType = errors.New("unsupported meal type")

type clockWindow struct {
	start, end string
}

// checked in this order by ClassifyWindow
var mealOrder = []MealType{MealBreakfast, MealLunch, MealDinner}

var mealWindows = map[MealType]clockWindow{
	MealBreakfast: {"08:00", "11:59"},
	MealLunch:     {"12:00", "16:59"},
	MealDinner:    {"17:00", "22:00"},
}

func ParseMealType(s string) (MealType, error) {
	t := MealType(s)
	if _, ok := mealWindows[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMealType, s)
	}
	return t, nil
}

// WindowFor returns the canonical start and end of a meal period on the given day.
func WindowFor(t MealType, day time.Time) (time.Time, time.Time, error) {
	w, ok := mealWindows[t]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedMealType, string(t))
	}
	return atClock(day, w.start), atClock(day, w.end), nil
}

// ClassifyWindow derives the meal period whose canonical hours contain the whole
// [start, end] window. ok is false for malformed or unmatched windows.
func ClassifyWindow(start, end string) (MealType, bool) {
	if !IsClock(start) || !IsClock(end) || start > end {
		return "", false
	}
	for _, t := range mealOrder {
		w := mealWindows[t]
		if w.start <= start && end <= w.end {
			return t, true
		}
	}
	return "", false
}

// IsClock reports whether s is a zero-padded 24h "HH:MM" value.
func IsClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// ClockOf formats t as "HH:MM" in its own location.
func ClockOf(t time.Time) string {
	return t.Format(ClockLayout)
}

func atClock(day time.Time, clock string) time.Time {
	c, _ := time.Parse(ClockLayout, clock)
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, day.Location())
}
