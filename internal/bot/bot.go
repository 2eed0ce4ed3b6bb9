package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/calendar-bot/internal/assistant"
	"github.com/xaenox/calendar-bot/internal/calendar"
	"go.uber.org/zap"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	assistant *assistant.Assistant
	calendar  calendar.Gateway
	logger    *zap.Logger
}

func New(token string, asst *assistant.Assistant, gateway calendar.Gateway, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:       api,
		assistant: asst,
		calendar:  gateway,
		logger:    logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	// Updates are handled on this goroutine so at most one utterance is in
	// flight at a time; the long-poll channel is the queue.
	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	// Blank input never reaches the router.
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	reply := b.assistant.Process(ctx, message.From.ID, text)
	b.sendMessage(message.Chat.ID, reply)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "connect":
		b.handleConnect(ctx, message)
	case "profile":
		b.sendMessage(message.Chat.ID, b.assistant.ProfileSummary(ctx, message.From.ID))
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Hi! I'm your calendar assistant. 📅
Start by telling me all about yourself - how you work, when you're most productive, what matters to you. The more I understand about how your brain works, the better I can help optimize your time.

Use /connect to link your calendar, then try things like:
"Schedule a team meeting tomorrow at 2pm"
"What do I have today?"

Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/connect - Connect your calendar
/profile - Show what I've learned about you

You can also just talk to me:
- "Schedule lunch with Sam tomorrow at 12pm"
- "What's my schedule this week?"
- "Cancel the team meeting"
- "I work best in the mornings"
- "My top priority is the product launch"`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleConnect(ctx context.Context, message *tgbotapi.Message) {
	if b.calendar.IsAuthenticated() {
		b.sendMessage(message.Chat.ID, "Your calendar is already connected!")
		return
	}

	if err := b.calendar.Authenticate(ctx); err != nil {
		b.logger.Error("Failed to authenticate calendar",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		b.sendMessage(message.Chat.ID, "Sorry, there was an issue connecting to your calendar. Please try again.")
		return
	}

	reply := "Great! I'm now connected to your calendar. I can see your events and help you schedule new ones. Tell me more about yourself!"
	if events, err := b.calendar.ListUpcoming(ctx, calendar.DefaultPageSize); err == nil && len(events) > 0 {
		reply = fmt.Sprintf("Great! I'm now connected to your calendar and can see %d upcoming events. Tell me more about yourself!", len(events))
	}
	b.sendMessage(message.Chat.ID, reply)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
