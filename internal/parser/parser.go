package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xaenox/calendar-bot/internal/models"
)

const (
	defaultTimeToken = "2:00 PM"
	defaultTitle     = "New Event"

	// EventDescription marks events this assistant created.
	EventDescription = "Scheduled via AI Calendar Assistant"
)

var (
	actionRe = regexp.MustCompile(`(?i)(schedule|book|add|create)`)
	timeRe   = regexp.MustCompile(`(?i)\d{1,2}(?::\d{2})?\s*(?:am|pm)`)
	dateRe   = regexp.MustCompile(`(?i)(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday|next week)`)

	weekdays = map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
)

// Parser extracts a structured event from a free-text scheduling request.
// It is a deterministic keyword/regex heuristic, not a grammar: the first
// recognizable time and date tokens win, everything left over is the title.
type Parser struct {
	resolveWeekdays bool

	// Now is the clock used to anchor relative dates; overridable in tests.
	Now func() time.Time
}

// New returns a Parser. With resolveWeekdays false (the historical
// behavior), a weekday token like "friday" is stripped from the title but
// the date stays on the current day; with it true the date advances to
// that weekday's next occurrence.
func New(resolveWeekdays bool) *Parser {
	return &Parser{
		resolveWeekdays: resolveWeekdays,
		Now:             time.Now,
	}
}

// Parse extracts title, start, and end from an utterance. It never fails:
// missing time defaults to 2:00 PM, missing date to today, and an empty
// title to "New Event". The second return value reports whether any title
// text remained before defaulting, so callers can ask for clarification
// instead of creating an anonymous event.
func (p *Parser) Parse(utterance string) (models.ParsedEvent, bool) {
	title := strings.TrimSpace(actionRe.ReplaceAllString(utterance, ""))

	timeToken := timeRe.FindString(utterance)
	dateToken := dateRe.FindString(utterance)

	date := p.Now()
	if dateToken != "" {
		switch lower := strings.ToLower(dateToken); lower {
		case "today":
			// keep current date
		case "tomorrow":
			date = date.AddDate(0, 0, 1)
		case "next week":
			date = date.AddDate(0, 0, 7)
		default:
			if p.resolveWeekdays {
				date = nextWeekday(date, weekdays[lower])
			}
		}
		title = stripToken(title, dateToken)
	}
	if timeToken != "" {
		title = stripToken(title, timeToken)
	}
	title = cleanTitle(title)

	if timeToken == "" {
		timeToken = defaultTimeToken
	}
	hour, minute := parseClock(timeToken)

	start := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())

	event := models.ParsedEvent{
		Title:       title,
		Start:       start,
		End:         start.Add(time.Hour),
		Description: EventDescription,
	}
	if event.Title == "" {
		event.Title = defaultTitle
	}
	return event, title != ""
}

// stripToken removes every case-insensitive occurrence of token.
func stripToken(s, token string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token))
	return strings.TrimSpace(re.ReplaceAllString(s, ""))
}

// cleanTitle collapses whitespace left behind by token removal and drops
// dangling connectives ("meeting tomorrow at 2pm" should not title as
// "meeting at").
func cleanTitle(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 && isFiller(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	for len(words) > 0 && isFiller(words[0]) {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func isFiller(word string) bool {
	switch strings.ToLower(word) {
	case "at", "on", "for":
		return true
	}
	return false
}

// parseClock converts a 12-hour token like "2:00 PM" or "9am" to 24-hour
// hour/minute. "12pm" stays 12, "12am" becomes 0.
func parseClock(token string) (hour, minute int) {
	lower := strings.ToLower(strings.TrimSpace(token))
	pm := strings.Contains(lower, "pm")
	lower = strings.TrimSuffix(strings.TrimSuffix(lower, "am"), "pm")
	lower = strings.TrimSpace(lower)

	parts := strings.SplitN(lower, ":", 2)
	hour, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}

	if pm && hour != 12 {
		hour += 12
	}
	if !pm && hour == 12 {
		hour = 0
	}
	return hour, minute
}

// nextWeekday returns the next occurrence of target strictly after from.
func nextWeekday(from time.Time, target time.Weekday) time.Time {
	days := int(target-from.Weekday()+7) % 7
	if days == 0 {
		days = 7
	}
	return from.AddDate(0, 0, days)
}
