package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/pkg/config"
	"estatehub/pkg/logger"
)

var Module = fx.Provide(New)

// Notifier delivers plain-text messages to the admin chat.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Params struct {
	fx.In
	Logger logger.Logger
	Config config.IConfig
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegram struct {
	logger logger.Logger
	bot    sender
	chatID int64
}

type nopNotifier struct{}

// New returns a Telegram notifier, or a no-op one when bot_token or
// admin_chat_id is not configured.
func New(p Params) (Notifier, error) {
	ctx := context.Background()

	token := p.Config.GetString("bot_token")
	chatID := p.Config.GetInt64("admin_chat_id")
	if token == "" || chatID == 0 {
		p.Logger.Info(ctx, "telegram notifications disabled")
		return nopNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	return newTelegram(p.Logger, bot, chatID), nil
}

func newTelegram(lg logger.Logger, bot sender, chatID int64) *telegram {
	return &telegram{
		logger: lg,
		bot:    bot,
		chatID: chatID,
	}
}

func (t *telegram) Send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn(ctx, "telegram send failed", zap.Error(err))
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (nopNotifier) Send(context.Context, string) error { return nil }
