package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the subset of tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier fans a text message out to the operator chats.
type TelegramNotifier struct {
	bot     Sender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewTelegramNotifier(bot Sender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs, logger: logger}
}

// Send delivers text to every configured chat. Partial delivery returns
// an error so the caller can retry the whole alert.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	if len(n.chatIDs) == 0 {
		return fmt.Errorf("no operator chats configured")
	}

	var failed int
	for _, chatID := range n.chatIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			failed++
			n.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
		}
	}

	if failed > 0 {
		return fmt.Errorf("telegram delivery failed for %d of %d chats", failed, len(n.chatIDs))
	}
	return nil
}
