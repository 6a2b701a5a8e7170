package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldCast/internal/domain/models"
	"GoldCast/internal/usecase"
)

type fakeBot struct {
	mu     sync.Mutex
	fail   map[int64]bool
	strict bool
	calls  int
	sent   []int64
	modes  []string
}

// unbalanced mimics the Bot API entity parser for legacy Markdown: every
// unescaped _ * ` delimiter has to be closed.
func unbalanced(text string) bool {
	open := map[rune]bool{}
	escaped := false
	for _, r := range text {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '_' || r == '*' || r == '`':
			open[r] = !open[r]
		}
	}
	return open['_'] || open['*'] || open['`']
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.strict && msg.ParseMode == tgbotapi.ModeMarkdown && unbalanced(msg.Text) {
		return tgbotapi.Message{}, &tgbotapi.Error{Code: 400, Message: "Bad Request: can't parse entities"}
	}
	b.modes = append(b.modes, msg.ParseMode)
	if b.fail[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	b.sent = append(b.sent, msg.ChatID)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func TestTelegramPartialDeliveryIsSuccess(t *testing.T) {
	bot := &fakeBot{fail: map[int64]bool{2: true}}
	n := NewTelegramNotifier(bot, []int64{1, 2, 3}, 0, nil)
	n.sendDelay = 0

	res := n.Send(context.Background(), "*XAUUSD* bullish", pred("a", t0))
	assert.True(t, res.Success)
	assert.Equal(t, []string{"1", "3"}, res.SentTargets)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "2: chat not found")
}

func TestTelegramAllFailed(t *testing.T) {
	bot := &fakeBot{fail: map[int64]bool{1: true}}
	n := NewTelegramNotifier(bot, []int64{1}, 0, nil)

	res := n.Send(context.Background(), "text", nil)
	assert.False(t, res.Success)
	assert.Empty(t, res.SentTargets)
}

func TestTelegramNoTargets(t *testing.T) {
	res := NewTelegramNotifier(&fakeBot{}, nil, 0, nil).Send(context.Background(), "text", nil)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"no chat ids configured"}, res.Errors)
}

func TestTelegramDeliversFormattedPrediction(t *testing.T) {
	bot := &fakeBot{strict: true}
	n := NewTelegramNotifier(bot, []int64{7}, 0, nil)

	p := pred("a", t0)
	p.Symbol = "XAU_USD"
	p.CurrentPrice, p.PredictedPrice = 2000, 2003
	p.Signal = models.SignalSlightlyBullish
	p.Confidence = 0.55
	p.Method = models.MethodAdaptiveEnsemble

	res := n.Send(context.Background(), usecase.FormatPredictionMessage(p), p)
	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Equal(t, []string{tgbotapi.ModeMarkdown}, bot.modes)
}

func TestTelegramBadRequestIsNotRetried(t *testing.T) {
	bot := &fakeBot{strict: true}
	n := NewTelegramNotifier(bot, []int64{7}, 3, nil)

	res := n.Send(context.Background(), "_unclosed", nil)
	assert.False(t, res.Success)
	assert.Equal(t, 1, bot.calls)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "can't parse entities")
}

func TestRejected(t *testing.T) {
	assert.True(t, rejected(&tgbotapi.Error{Code: 400}))
	assert.True(t, rejected(&tgbotapi.Error{Code: 403}))
	assert.False(t, rejected(&tgbotapi.Error{Code: 429}))
	assert.False(t, rejected(&tgbotapi.Error{Code: 502}))
	assert.False(t, rejected(errors.New("connection reset")))
	assert.False(t, rejected(nil))
}
