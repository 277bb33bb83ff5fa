package handoff

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the subset of *tgbotapi.BotAPI the notifier needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts order messages to the owner's chat
type TelegramNotifier struct {
	bot          Sender
	chatID       int64
	dashboardURL string
}

// NewTelegramNotifier connects to the Bot API with token
func NewTelegramNotifier(token string, chatID int64, dashboardURL string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return NewTelegramNotifierWithSender(bot, chatID, dashboardURL), nil
}

// NewTelegramNotifierWithSender wraps an existing sender
func NewTelegramNotifierWithSender(bot Sender, chatID int64, dashboardURL string) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, dashboardURL: dashboardURL}
}

// NotifyOrder sends the formatted order message as plain text, with a
// button to the dashboard when one is configured.
func (n *TelegramNotifier) NotifyOrder(ctx context.Context, menu *models.Menu, order *models.Order, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, message)
	if n.dashboardURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Open orders", n.dashboardURL),
			),
		)
	}

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to notify chat %d of order for menu %s: %w", n.chatID, menu.ID, err)
	}
	return nil
}
