package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"GoldCast/internal/domain/models"
	domrepo "GoldCast/internal/domain/repository"
	applogger "GoldCast/pkg/logger"
)

// TelegramSender is the subset of tgbotapi.BotAPI the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes the formatted block to every configured chat.
// Delivery succeeds when at least one chat received it.
type TelegramNotifier struct {
	bot        TelegramSender
	chatIDs    []int64
	maxRetries uint64
	sendDelay  time.Duration
	l          *applogger.Logger
}

var _ domrepo.Notifier = (*TelegramNotifier)(nil)

// NewTelegramBot authorizes the bot token.
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

func NewTelegramNotifier(bot TelegramSender, chatIDs []int64, maxRetries int, l *applogger.Logger) *TelegramNotifier {
	if l == nil {
		l = applogger.Nop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TelegramNotifier{
		bot:        bot,
		chatIDs:    chatIDs,
		maxRetries: uint64(maxRetries),
		sendDelay:  50 * time.Millisecond,
		l:          l,
	}
}

func (n *TelegramNotifier) Send(ctx context.Context, text string, p *models.Prediction) domrepo.NotifyResult {
	res := domrepo.NotifyResult{}
	if len(n.chatIDs) == 0 {
		res.Errors = append(res.Errors, "no chat ids configured")
		return res
	}

	for i, chatID := range n.chatIDs {
		target := strconv.FormatInt(chatID, 10)
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown

		b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), n.maxRetries), ctx)
		err := backoff.Retry(func() error {
			_, err := n.bot.Send(msg)
			if rejected(err) {
				return backoff.Permanent(err)
			}
			return err
		}, b)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", target, err))
			n.l.Warn("telegram send failed", applogger.String("chat_id", target), applogger.Error(err))
		} else {
			res.SentTargets = append(res.SentTargets, target)
		}

		// stay under the per-bot message rate
		if i < len(n.chatIDs)-1 {
			select {
			case <-ctx.Done():
				res.Errors = append(res.Errors, ctx.Err().Error())
				res.Success = len(res.SentTargets) > 0
				return res
			case <-time.After(n.sendDelay):
			}
		}
	}
	res.Success = len(res.SentTargets) > 0
	if p != nil {
		n.l.Debug("telegram delivery",
			applogger.String("prediction_id", p.ID),
			applogger.Int("sent", len(res.SentTargets)),
			applogger.Int("failed", len(res.Errors)))
	}
	return res
}

// rejected reports a Telegram API refusal that a resend cannot fix: a bad
// payload, token or chat. 429 stays retryable.
func rejected(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= http.StatusBadRequest && apiErr.Code < http.StatusInternalServerError &&
		apiErr.Code != http.StatusTooManyRequests
}
