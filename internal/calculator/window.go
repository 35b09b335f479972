package calculator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"StakeBanner/internal/model"
)

// DefaultBucketWidth is the span of one weekly cohort.
const DefaultBucketWidth = 7 * 24 * time.Hour

// Mode selects how deadlines past the third boundary are classified.
type Mode string

const (
	// ModeStrict puts every deadline at or after T3 into week 4.
	ModeStrict Mode = "strict"
	// ModeLegacy reproduces the dashboard widget this service replaces: deadlines after T3
	// are counted in week 3, a deadline exactly on T3 lands nowhere and week 4 stays empty.
	ModeLegacy Mode = "legacy"
)

// ParseMode converts a config string to a Mode. Empty means strict.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModeLegacy:
		return ModeLegacy, nil
	default:
		return "", fmt.Errorf("unknown classification mode %q", s)
	}
}

// Window describes the four consecutive weekly cohorts starting at Start.
type Window struct {
	Start time.Time
	Width time.Duration
}

// NewWindow validates and builds a Window.
func NewWindow(start time.Time, width time.Duration) (Window, error) {
	if width <= 0 {
		return Window{}, errors.New("bucket width must be positive")
	}
	if start.IsZero() {
		return Window{}, errors.New("window start is required")
	}
	return Window{Start: start, Width: width}, nil
}

// Boundaries returns T1, T2 and T3 as unix seconds.
func (w Window) Boundaries() [3]int64 {
	t0 := w.Start.Unix()
	step := int64(w.Width / time.Second)
	return [3]int64{t0 + step, t0 + 2*step, t0 + 3*step}
}

// Classify returns the 1-based week a deadline belongs to, or 0 if none.
func (w Window) Classify(deadline int64, mode Mode) int {
	b := w.Boundaries()
	switch {
	case deadline < b[0]:
		return 1
	case deadline < b[1]:
		return 2
	case deadline < b[2]:
		return 3
	}
	if mode == ModeLegacy {
		if deadline > b[2] {
			return 3
		}
		return 0
	}
	return model.WeekCount
}
