package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return "telegram delivery: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Notifier sends plain-text messages to one fixed chat.
type Notifier struct {
	bot     sender
	chatID  int64
	channel string
}

// New builds the bot client without calling getMe, so an unreachable Telegram
// at startup is not fatal; the first Send will report it instead.
func New(token, chatID, apiEndpoint string, timeout time.Duration) (*Notifier, error) {
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(apiEndpoint)
	return newWithSender(bot, chatID)
}

func newWithSender(s sender, chatID string) (*Notifier, error) {
	n := &Notifier{bot: s}
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		n.chatID = id
		return n, nil
	}
	if strings.HasPrefix(chatID, "@") {
		n.channel = chatID
		return n, nil
	}
	return nil, errors.Errorf("telegram chat id %q is neither numeric nor @channel", chatID)
}

func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(&DeliveryError{Err: err})
	}

	var msg tgbotapi.MessageConfig
	if n.channel != "" {
		msg = tgbotapi.NewMessageToChannel(n.channel, text)
	} else {
		msg = tgbotapi.NewMessage(n.chatID, text)
	}

	sent, err := n.bot.Send(msg)
	if err != nil {
		return errors.WithStack(&DeliveryError{Err: err})
	}
	slog.Info("message is sent", "message_id", sent.MessageID)
	return nil
}
