package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"vitals-service/internal/logging"
	"vitals-service/internal/models"
	"vitals-service/internal/utils"
)

// MessageSender is the part of *bot.Bot used to deliver alerts.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
}

// Telegram sends alert messages to a single chat.
type Telegram struct {
	sender    MessageSender
	chatID    int64
	minStatus models.Status
	limiter   *rate.Limiter
	logger    *logging.Logger
	retryWait time.Duration
}

// NewTelegramBot creates the go-telegram client for token.
func NewTelegramBot(token string) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return b, nil
}

// NewTelegram returns a sink that forwards alerts of at least minStatus.
func NewTelegram(sender MessageSender, chatID int64, ratePerSecond int, minStatus models.Status, logger *logging.Logger) *Telegram {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &Telegram{
		sender:    sender,
		chatID:    chatID,
		minStatus: minStatus,
		limiter:   rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond),
		logger:    logger,
		retryWait: time.Second,
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Deliver ignores snapshots, resolved alerts and alerts below the minimum status.
func (t *Telegram) Deliver(ctx context.Context, event models.Event) error {
	if event.Kind != models.EventAlert || event.Alert == nil {
		return nil
	}
	alert := *event.Alert
	if alert.Type != models.AlertTypeAlert || alert.Status.Rank() < t.minStatus.Rank() {
		return nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	params := &bot.SendMessageParams{
		ChatID:    t.chatID,
		Text:      FormatAlert(alert),
		ParseMode: tgmodels.ParseModeMarkdownV1,
	}
	return utils.Retry(ctx, t.logger, 3, t.retryWait, func() error {
		if _, err := t.sender.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", t.chatID, err)
		}
		return nil
	})
}

// FormatAlert renders an alert as a Markdown message.
func FormatAlert(a models.Alert) string {
	v := a.Vitals
	text := fmt.Sprintf(
		"*%s alert: room %s*\n"+
			"*Condition:* %s\n"+
			"*Heart rate:* %.1f bpm\n"+
			"*Blood pressure:* %.1f/%.1f mmHg\n"+
			"*SpO2:* %.1f%%\n"+
			"*Temperature:* %.1f F\n"+
			"*Respiratory rate:* %.1f /min\n"+
			"*At:* %s",
		strings.ToUpper(string(a.Status)),
		a.RoomNumber,
		a.Condition,
		v.HeartRate,
		v.BloodPressure.Systolic, v.BloodPressure.Diastolic,
		v.OxygenSaturation,
		v.Temperature,
		v.RespiratoryRate,
		v.Timestamp,
	)
	if len(a.Reasons) > 0 {
		text += "\n*Reasons:* " + strings.Join(a.Reasons, "; ")
	}
	return text
}
