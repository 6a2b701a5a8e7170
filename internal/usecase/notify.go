package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"GoldCast/internal/domain/models"
)

// NotifyPolicy decides whether a fresh prediction is worth pushing.
type NotifyPolicy struct {
	Enabled       bool
	Interval      time.Duration
	MinConfidence float64
	MinChangePct  float64 // percent, 0.1 means 0.1%
}

// ShouldNotify applies the enable flag, the content thresholds and the
// minimum interval since the last successful push. reason is set when it returns false.
func (p NotifyPolicy) ShouldNotify(pred *models.Prediction, lastPush *time.Time, now time.Time) (ok bool, reason string) {
	switch {
	case !p.Enabled:
		return false, "disabled"
	case pred == nil:
		return false, "no prediction"
	case pred.Confidence < p.MinConfidence:
		return false, "confidence below threshold"
	case math.Abs(pred.PriceChangePct()*100) < p.MinChangePct:
		return false, "price change below threshold"
	case lastPush != nil && now.Sub(*lastPush) < p.Interval:
		return false, "interval not elapsed"
	}
	return true, ""
}

func signalEmoji(s models.Signal) string {
	switch {
	case s == models.SignalFlat:
		return "➖"
	case s.IsBearish():
		return "📉"
	default:
		return "📈"
	}
}

// md escapes free text for Telegram's legacy Markdown so only the template's own
// delimiters open entities. Escapes only work outside entities, so escaped
// text never sits between * or _.
func md(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s) }

// FormatPredictionMessage renders the Markdown text pushed to chat targets.
func FormatPredictionMessage(p *models.Prediction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *Forecast* %s\n\n", signalEmoji(p.Signal), md(p.Symbol))
	fmt.Fprintf(&b, "🕒 Time: %s\n", p.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "💰 Current: $%.2f\n", p.CurrentPrice)
	fmt.Fprintf(&b, "🎯 Predicted: $%.2f\n", p.PredictedPrice)
	fmt.Fprintf(&b, "📊 Change: %+.2f (%+.3f%%)\n", p.PriceChange(), p.PriceChangePct()*100)
	fmt.Fprintf(&b, "🧭 *Signal:* %s\n", md(string(p.Signal)))
	fmt.Fprintf(&b, "🔒 Confidence: %.1f%%\n", p.Confidence*100)
	fmt.Fprintf(&b, "⚙️ Method: %s\n", md(p.Method))
	fmt.Fprintf(&b, "⏰ Target: %s\n\n", p.TargetTime.UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("_Automated forecast, not investment advice._")
	return b.String()
}
