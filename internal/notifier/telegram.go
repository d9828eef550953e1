package notifier

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Telegram доставляет сообщения клиентам через бота.
// Ошибки доставки возвращаются вызывающей стороне: она логирует их
// и продолжает работу, наружу они не поднимаются.
type Telegram struct {
	bot *bot.Bot
}

func NewTelegram(b *bot.Bot) *Telegram {
	return &Telegram{bot: b}
}

func (n *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}
