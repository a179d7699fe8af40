// Package sink holds the notification collaborators of the pipeline.
// All of them are fire and forget: a failed send is logged by the caller
// and never propagated.
package sink

import (
	"context"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegramSink pushes operator alerts to a Telegram chat.
type TelegramSink struct {
	bot    *telego.Bot
	chatID int64
	log    *slog.Logger
}

func NewTelegramSink(token string, chatID int64, log *slog.Logger) (*TelegramSink, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, err
	}
	return &TelegramSink{bot: bot, chatID: chatID, log: log}, nil
}

func (s *TelegramSink) Send(ctx context.Context, message string) error {
	_, err := s.bot.SendMessage(ctx, tu.Message(tu.ID(s.chatID), message))
	if err != nil {
		return err
	}
	s.log.Debug("Telegram alert sent", "chat_id", s.chatID)
	return nil
}
