package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"vitals-service/internal/models"
)

// Config holds application configuration loaded from environment.
type Config struct {
	API struct {
		Port    string
		GinMode string
	}
	Refresh struct {
		Interval time.Duration
		Backoff  time.Duration
	}
	Logging struct {
		Dir   string
		Level string
	}
	Notification struct {
		QueueSize  int
		MaxWorkers int
	}
	WebSocket struct {
		MaxConnections int
	}
	Kafka struct {
		Brokers       []string
		VitalsTopic   string
		AlertsTopic   string
		OverrideTopic string
		GroupID       string
	}
	DB struct {
		DSN string
	}
	Telegram struct {
		BotToken  string
		ChatID    int64
		RateLimit int
		MinStatus models.Status
	}
}

// KafkaEnabled reports whether brokers are configured.
func (c Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }

// TelegramEnabled reports whether alert messages can be sent.
func (c Config) TelegramEnabled() bool { return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0 }

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	var errs []string

	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.GinMode = os.Getenv("GIN_MODE")

	cfg.Refresh.Interval = durationEnv("REFRESH_INTERVAL", &errs)
	cfg.Refresh.Backoff = durationEnv("REFRESH_BACKOFF", &errs)

	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	cfg.Notification.QueueSize = intEnv("QUEUE_SIZE", &errs)
	cfg.Notification.MaxWorkers = intEnv("MAX_WORKERS", &errs)
	cfg.WebSocket.MaxConnections = intEnv("WS_MAX_CONNECTIONS", &errs)

	// Kafka settings
	cfg.Kafka.Brokers = splitCSV(os.Getenv("KAFKA_BROKERS"))
	cfg.Kafka.VitalsTopic = os.Getenv("KAFKA_VITALS_TOPIC")
	cfg.Kafka.AlertsTopic = os.Getenv("KAFKA_ALERTS_TOPIC")
	cfg.Kafka.OverrideTopic = os.Getenv("KAFKA_OVERRIDE_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Database DSN, archive is disabled when empty
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// Telegram settings
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, "TELEGRAM_CHAT_ID")
		}
		cfg.Telegram.ChatID = id
	}
	cfg.Telegram.RateLimit = intEnv("TELEGRAM_RATE_LIMIT", &errs)
	if v := os.Getenv("TELEGRAM_MIN_STATUS"); v != "" {
		status, ok := models.ParseStatus(v)
		if !ok {
			errs = append(errs, "TELEGRAM_MIN_STATUS")
		}
		cfg.Telegram.MinStatus = status
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configurations: %v", errs)
	}

	// Apply defaults
	if cfg.API.Port == "" {
		cfg.API.Port = ":8001"
	}
	if !strings.Contains(cfg.API.Port, ":") {
		cfg.API.Port = ":" + cfg.API.Port
	}
	if cfg.API.GinMode == "" {
		cfg.API.GinMode = "release"
	}
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = 2 * time.Second
	}
	if cfg.Refresh.Backoff == 0 {
		cfg.Refresh.Backoff = 5 * time.Second
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Notification.QueueSize == 0 {
		cfg.Notification.QueueSize = 500
	}
	if cfg.Notification.MaxWorkers == 0 {
		cfg.Notification.MaxWorkers = 4
	}
	if cfg.WebSocket.MaxConnections == 0 {
		cfg.WebSocket.MaxConnections = 10
	}
	if cfg.Kafka.VitalsTopic == "" {
		cfg.Kafka.VitalsTopic = "vitals.snapshots"
	}
	if cfg.Kafka.AlertsTopic == "" {
		cfg.Kafka.AlertsTopic = "vitals.alerts"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "vitals-service"
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 1
	}
	if cfg.Telegram.MinStatus == "" {
		cfg.Telegram.MinStatus = models.StatusCritical
	}

	return cfg, nil
}

func intEnv(key string, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*errs = append(*errs, key)
		return 0
	}
	return n
}

func durationEnv(key string, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		*errs = append(*errs, key)
		return 0
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
