package intent

import "strings"

// Intent identifies the action category assigned to an utterance.
type Intent string

const (
	Schedule            Intent = "schedule"
	LearnPreference     Intent = "learn_preference"
	SetPriority         Intent = "set_priority"
	ViewCalendar        Intent = "view_calendar"
	ProfileInquiry      Intent = "profile_inquiry"
	DeleteEvent         Intent = "delete_event"
	GeneralConversation Intent = "general_conversation"
)

type rule struct {
	intent   Intent
	keywords []string
}

// Rules are evaluated in order; the first keyword hit wins. Scheduling
// outranks priority talk, so "schedule an important review" schedules.
var rules = []rule{
	{Schedule, []string{"schedule", "book", "add"}},
	{LearnPreference, []string{"i work best", "i prefer", "i like", "i am", "my brain"}},
	{SetPriority, []string{"priority", "important", "urgent"}},
	{ViewCalendar, []string{"what do i have", "my schedule", "tomorrow", "today", "this week"}},
	{ProfileInquiry, []string{"my preferences", "tell me about", "what do you know"}},
	{DeleteEvent, []string{"cancel", "delete", "remove"}},
}

// Classify assigns exactly one intent to an utterance. Matching is
// case-insensitive substring containment; utterances that hit no rule
// fall through to GeneralConversation.
func Classify(utterance string) Intent {
	lower := strings.ToLower(utterance)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.intent
			}
		}
	}
	return GeneralConversation
}
