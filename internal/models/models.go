package models

import "time"

// WorkingHours is the start/end hour-of-day window the user prefers to work in.
type WorkingHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// UserProfile is the accumulated record of what the assistant has learned
// about a user: free-text preference insights, current priorities, and
// scheduling defaults. Preference and priority lists are bounded; the
// handlers that append to them enforce the caps.
type UserProfile struct {
	Preferences   []string     `json:"preferences"`
	Priorities    []string     `json:"priorities"`
	WorkBestTimes []string     `json:"work_best_times"`
	BufferTime    int          `json:"buffer_time"`
	WorkingHours  WorkingHours `json:"working_hours"`
}

// DefaultProfile returns the profile a user starts with on first contact.
func DefaultProfile() *UserProfile {
	return &UserProfile{
		Preferences:   []string{},
		Priorities:    []string{},
		WorkBestTimes: []string{},
		BufferTime:    15,
		WorkingHours:  WorkingHours{Start: 9, End: 17},
	}
}

// Clone returns a deep copy so callers can mutate without affecting the original.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.Preferences = append([]string(nil), p.Preferences...)
	c.Priorities = append([]string(nil), p.Priorities...)
	c.WorkBestTimes = append([]string(nil), p.WorkBestTimes...)
	return &c
}

// ParsedEvent is the structured scheduling request extracted from an utterance.
type ParsedEvent struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
}

// CalendarEvent is an event as reported by the calendar provider.
// AllDay marks events whose start carries a date-only value.
type CalendarEvent struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	AllDay  bool      `json:"all_day"`
}
