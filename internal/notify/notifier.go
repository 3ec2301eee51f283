package notify

import (
	"fmt"

	"fx_terminal/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Severity string

const (
	SeverityInfo  Severity = "information"
	SeverityError Severity = "error"
)

// Notifier — куда монитор шлёт исходы исполнения (UI, телеграм, лог).
type Notifier interface {
	Notify(msg string, severity Severity)
	Notifyf(severity Severity, format string, args ...any)
}

// Telegram — пассивный нотифайер, только исходящие сообщения.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
	}, nil
}

func (t *Telegram) Notify(msg string, severity Severity) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if severity == SeverityError {
		msg = "❗️ " + msg
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Notifyf(severity Severity, format string, args ...any) {
	t.Notify(fmt.Sprintf(format, args...), severity)
}

// Stdout — заглушка, всё просто логирует.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Notify(msg string, severity Severity) {
	if severity == SeverityError {
		logger.Error("[NOTIFY] %s", msg)
		return
	}
	logger.Info("[NOTIFY] %s", msg)
}

func (s *Stdout) Notifyf(severity Severity, format string, args ...any) {
	s.Notify(fmt.Sprintf(format, args...), severity)
}
