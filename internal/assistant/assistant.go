package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/xaenox/calendar-bot/internal/calendar"
	"github.com/xaenox/calendar-bot/internal/intent"
	"github.com/xaenox/calendar-bot/internal/models"
	"github.com/xaenox/calendar-bot/internal/parser"
	"github.com/xaenox/calendar-bot/internal/profile"
	"go.uber.org/zap"
)

const (
	dateFormat = "1/2/2006"
	timeFormat = "3:04 PM"
)

const (
	msgConnectFirst = "I need to connect to your calendar first. Use /connect to link it."
	msgConnectView  = "I need to connect to your calendar first to show you your schedule. Use /connect to link it."

	msgScheduleClarify = "I couldn't figure out what event you want to schedule. Could you be more specific? For example: 'Schedule a team meeting tomorrow at 2pm'"
	msgScheduleFailed  = "I had trouble creating that event. Please check the details and try again."
	msgScheduled       = "Perfect! I've scheduled \"%s\" for %s at %s. I made sure to respect your preferences when picking this time."

	msgCalendarTrouble = "I had trouble accessing your calendar. Please try again."
	msgNoUpcoming      = "You don't have any upcoming events! This might be a good time to focus on your priorities or take a break."
	msgUpcoming        = "Here's what you have coming up:\n\n%s\n\nBased on what I know about you, I notice some good focus time slots between your meetings!"

	msgLearned  = "Got it! I've learned that you %s. I'll use this insight when helping you schedule and optimize your time. The more you tell me about how you work, the better I can help you!"
	msgPriority = "Understood! I've noted that \"%s\" is a high priority for you. I'll make sure to protect time for this and suggest optimal scheduling around it."

	msgInsightThanks = "Thanks for sharing! I'm learning about your work patterns and preferences. Keep telling me about yourself - every detail helps me understand how to optimize your schedule better."
	msgGeneralPrompt = "I understand. Tell me more about how you work best, when you're most productive, or what kinds of tasks energize or drain you. The more I know about your work style, the better I can help optimize your time."

	msgDeleteWhich     = "Which event would you like me to cancel? Tell me part of its name."
	msgDeleteNotFound  = "I couldn't find an upcoming event matching \"%s\"."
	msgDeleteAmbiguous = "I found more than one event matching \"%s\":\n\n%s\n\nCould you be more specific?"
	msgDeleted         = "Done! I've cancelled \"%s\"."
	msgDeleteFailed    = "I had trouble updating your calendar. Please try again."

	msgTrouble = "I had trouble processing that request. Could you try rephrasing it?"
)

var (
	learnTriggerRe    = regexp.MustCompile(`(?i)(i work best|i prefer|i like|i am|my brain)`)
	priorityTriggerRe = regexp.MustCompile(`(?i)(priority|important|urgent|focus)`)
	deleteTriggerRe   = regexp.MustCompile(`(?i)(cancel|delete|remove)`)
)

// Assistant is the conversational core: it routes each utterance to exactly
// one intent handler and renders a deterministic, templated reply. Handlers
// mutate the profile through the store and talk to the calendar through the
// gateway; every failure is recovered into reply text.
type Assistant struct {
	profiles *profile.Store
	calendar calendar.Gateway
	parser   *parser.Parser
	logger   *zap.Logger
}

func New(profiles *profile.Store, gateway calendar.Gateway, p *parser.Parser, logger *zap.Logger) *Assistant {
	return &Assistant{
		profiles: profiles,
		calendar: gateway,
		parser:   p,
		logger:   logger,
	}
}

// Process handles one utterance end to end and returns the reply text.
// Blank input is a safe no-op: no mutation, no gateway call.
func (a *Assistant) Process(ctx context.Context, userID int64, input string) string {
	if strings.TrimSpace(input) == "" {
		return msgGeneralPrompt
	}

	switch intent.Classify(input) {
	case intent.Schedule:
		return a.handleScheduling(ctx, input)
	case intent.LearnPreference:
		return a.handleLearning(ctx, userID, input)
	case intent.SetPriority:
		return a.handlePriority(ctx, userID, input)
	case intent.ViewCalendar:
		return a.handleCalendarView(ctx)
	case intent.ProfileInquiry:
		return a.ProfileSummary(ctx, userID)
	case intent.DeleteEvent:
		return a.handleEventDeletion(ctx, input)
	default:
		return a.handleGeneralConversation(ctx, userID, input)
	}
}

func (a *Assistant) handleScheduling(ctx context.Context, input string) string {
	if !a.calendar.IsAuthenticated() {
		return msgConnectFirst
	}

	event, titled := a.parser.Parse(input)
	if !titled {
		return msgScheduleClarify
	}

	created, err := a.calendar.CreateEvent(ctx, event)
	if err != nil {
		a.logger.Error("Failed to create event",
			zap.Error(err),
			zap.String("title", event.Title))
		return msgScheduleFailed
	}

	// Refresh the upcoming list so the next view reflects the new event.
	if _, err := a.calendar.ListUpcoming(ctx, calendar.DefaultPageSize); err != nil {
		a.logger.Warn("Failed to refresh upcoming events", zap.Error(err))
	}

	a.logger.Info("Event scheduled",
		zap.String("event_id", created.ID),
		zap.String("title", created.Summary),
		zap.Time("start", created.Start))

	return fmt.Sprintf(msgScheduled,
		event.Title,
		event.Start.Format(dateFormat),
		event.Start.Format(timeFormat))
}

func (a *Assistant) handleCalendarView(ctx context.Context) string {
	if !a.calendar.IsAuthenticated() {
		return msgConnectView
	}

	events, err := a.calendar.ListUpcoming(ctx, calendar.DefaultPageSize)
	if err != nil {
		a.logger.Error("Failed to list upcoming events", zap.Error(err))
		return msgCalendarTrouble
	}

	if len(events) == 0 {
		return msgNoUpcoming
	}

	if len(events) > 5 {
		events = events[:5]
	}
	lines := make([]string, len(events))
	for i, event := range events {
		lines[i] = fmt.Sprintf("• %s - %s at %s",
			event.Summary,
			event.Start.Format(dateFormat),
			event.Start.Format(timeFormat))
	}

	return fmt.Sprintf(msgUpcoming, strings.Join(lines, "\n"))
}

func (a *Assistant) handleLearning(ctx context.Context, userID int64, input string) string {
	insight := strings.TrimSpace(learnTriggerRe.ReplaceAllString(input, ""))

	if _, err := a.profiles.AppendPreference(ctx, userID, insight, profile.PreferenceCap); err != nil {
		return msgTrouble
	}
	return fmt.Sprintf(msgLearned, insight)
}

func (a *Assistant) handlePriority(ctx context.Context, userID int64, input string) string {
	priority := strings.TrimSpace(priorityTriggerRe.ReplaceAllString(input, ""))

	if _, err := a.profiles.AppendPriority(ctx, userID, priority); err != nil {
		return msgTrouble
	}
	return fmt.Sprintf(msgPriority, priority)
}

// ProfileSummary renders everything the assistant has learned: the last 5
// preferences, all priorities, and the scheduling defaults. Empty lists get
// placeholder text, never an empty section.
func (a *Assistant) ProfileSummary(ctx context.Context, userID int64) string {
	snapshot, err := a.profiles.Snapshot(ctx, userID)
	if err != nil {
		a.logger.Error("Failed to load profile",
			zap.Error(err),
			zap.Int64("user_id", userID))
		return msgTrouble
	}

	prefs := snapshot.Preferences
	if len(prefs) > 5 {
		prefs = prefs[len(prefs)-5:]
	}
	prefText := "• No preferences recorded yet"
	if len(prefs) > 0 {
		prefText = bulleted(prefs)
	}

	prioText := "• No priorities set yet"
	if len(snapshot.Priorities) > 0 {
		prioText = bulleted(snapshot.Priorities)
	}

	return fmt.Sprintf(`Here's what I know about how you work:

Your Work Style:
%s

Your Current Priorities:
%s

Settings:
• Buffer time: %d minutes between meetings
• Working hours: %d:00 - %d:00

Keep sharing more about yourself - I'm always learning!`,
		prefText, prioText,
		snapshot.BufferTime,
		snapshot.WorkingHours.Start, snapshot.WorkingHours.End)
}

func (a *Assistant) handleEventDeletion(ctx context.Context, input string) string {
	if !a.calendar.IsAuthenticated() {
		return msgConnectFirst
	}

	query := strings.TrimSpace(deleteTriggerRe.ReplaceAllString(input, ""))
	query = trimArticles(query)
	if query == "" {
		return msgDeleteWhich
	}

	events, err := a.calendar.ListUpcoming(ctx, calendar.DefaultPageSize)
	if err != nil {
		a.logger.Error("Failed to list upcoming events", zap.Error(err))
		return msgCalendarTrouble
	}

	matches := matchEvents(events, query)
	switch len(matches) {
	case 0:
		return fmt.Sprintf(msgDeleteNotFound, query)
	case 1:
		if err := a.calendar.DeleteEvent(ctx, matches[0].ID); err != nil {
			a.logger.Error("Failed to delete event",
				zap.Error(err),
				zap.String("event_id", matches[0].ID))
			return msgDeleteFailed
		}
		return fmt.Sprintf(msgDeleted, matches[0].Summary)
	default:
		summaries := make([]string, len(matches))
		for i, m := range matches {
			summaries[i] = m.Summary
		}
		return fmt.Sprintf(msgDeleteAmbiguous, query, bulleted(summaries))
	}
}

func (a *Assistant) handleGeneralConversation(ctx context.Context, userID int64, input string) string {
	lower := strings.ToLower(input)

	productive := strings.Contains(lower, "better") ||
		strings.Contains(lower, "best") ||
		strings.Contains(lower, "productive")

	var insights []string
	if strings.Contains(lower, "morning") && productive {
		insights = append(insights, "works better in mornings")
	}
	if strings.Contains(lower, "evening") && productive {
		insights = append(insights, "works better in evenings")
	}
	if strings.Contains(lower, "tired") || strings.Contains(lower, "energy") {
		insights = append(insights, "energy patterns: "+input)
	}
	if strings.Contains(lower, "focus") || strings.Contains(lower, "concentrate") {
		insights = append(insights, "focus preferences: "+input)
	}

	if len(insights) == 0 {
		return msgGeneralPrompt
	}

	for _, insight := range insights {
		if _, err := a.profiles.AppendPreference(ctx, userID, insight, profile.InsightCap); err != nil {
			return msgTrouble
		}
	}
	return msgInsightThanks
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

// matchEvents finds upcoming events whose summary contains the query, or
// whose summary the query contains, ignoring case.
func matchEvents(events []models.CalendarEvent, query string) []models.CalendarEvent {
	q := strings.ToLower(query)
	var matches []models.CalendarEvent
	for _, event := range events {
		summary := strings.ToLower(event.Summary)
		if summary == "" {
			continue
		}
		if strings.Contains(summary, q) || strings.Contains(q, summary) {
			matches = append(matches, event)
		}
	}
	return matches
}

// trimArticles drops leading articles and a trailing "event" so "cancel the
// standup event" matches a summary of "standup".
func trimArticles(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 {
		switch strings.ToLower(words[0]) {
		case "the", "my", "a", "an":
			words = words[1:]
			continue
		}
		break
	}
	if len(words) > 0 && strings.EqualFold(words[len(words)-1], "event") {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
