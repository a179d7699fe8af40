package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full environment surface of the moderation pipeline.
// Every threshold default matches the decision policy documented in
// moderation.DefaultThresholds.
type Config struct {
	Enabled         bool   `env:"MODERATION_ENABLED,default=true"`
	NumberOfWorkers int    `env:"NUMBER_OF_WORKERS,default=4" validate:"gt=0"`
	BufferSize      int    `env:"BUFFER_SIZE,default=256" validate:"gt=0"`
	BadgerFilepath  string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath   string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel        string `env:"LOG_LEVEL,default=INFO"`

	MetricInterval time.Duration `env:"METRIC_INTERVAL,default=30s"`

	// Decision thresholds
	AutoApproveConfidence  float64 `env:"AUTO_APPROVE_CONFIDENCE,default=0.9" validate:"gte=0,lte=1"`
	AutoRejectConfidence   float64 `env:"AUTO_REJECT_CONFIDENCE,default=0.8" validate:"gte=0,lte=1"`
	ManualReviewConfidence float64 `env:"MANUAL_REVIEW_CONFIDENCE,default=0.7" validate:"gte=0,lte=1"`

	// Rate limiting (process-wide, all providers share the budget)
	RateLimitEnabled     bool  `env:"RATE_LIMIT_ENABLED,default=true"`
	MaxRequestsPerMinute int64 `env:"MAX_REQUESTS_PER_MINUTE,default=60" validate:"gt=0"`
	MaxRequestsPerHour   int64 `env:"MAX_REQUESTS_PER_HOUR,default=1000" validate:"gt=0"`
	MaxRequestsPerDay    int64 `env:"MAX_REQUESTS_PER_DAY,default=10000" validate:"gt=0"`

	// Result cache
	CacheEnabled  bool          `env:"CACHE_ENABLED,default=true"`
	CacheTTL      time.Duration `env:"CACHE_TTL,default=1h"`
	CacheCapacity int           `env:"CACHE_CAPACITY,default=4096" validate:"gt=0"`

	// Fallback / retry
	RetryAttempts   int           `env:"RETRY_ATTEMPTS,default=2" validate:"gte=0"`
	RetryDelay      time.Duration `env:"RETRY_DELAY,default=500ms"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT,default=30s"`

	// Notifications
	NotificationsEnabled  bool   `env:"NOTIFICATIONS_ENABLED,default=true"`
	NotifyAdmins          bool   `env:"NOTIFY_ADMINS,default=true"`
	TelegramNotifications bool   `env:"TELEGRAM_NOTIFICATIONS,default=false"`
	TelegramBotToken      string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID        int64  `env:"TELEGRAM_CHAT_ID"`

	// Providers. A provider is enabled when its API key is set;
	// the wordlist provider is always available for offline runs.
	DefaultProvider string  `env:"DEFAULT_PROVIDER,default=wordlist"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string  `env:"ANTHROPIC_MODEL,default=claude-3-5-haiku-latest"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY"`
	OpenAIModel     string  `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	MistralAPIKey   string  `env:"MISTRAL_API_KEY"`
	MistralModel    string  `env:"MISTRAL_MODEL,default=mistral-small-latest"`
	GrokAPIKey      string  `env:"GROK_API_KEY"`
	GrokModel       string  `env:"GROK_MODEL,default=grok-2-latest"`
	Temperature     float64 `env:"PROVIDER_TEMPERATURE,default=0" validate:"gte=0,lte=2"`
	MaxTokens       int64   `env:"PROVIDER_MAX_TOKENS,default=512" validate:"gt=0"`

	// Per-content-type overrides.
	// CONTENT_TYPE_PROVIDERS: "catch_photos=openai,point_photos=anthropic"
	// DISABLED_CONTENT_TYPES: "user_bio,point_comments"
	ContentTypeProviders string `env:"CONTENT_TYPE_PROVIDERS"`
	DisabledContentTypes string `env:"DISABLED_CONTENT_TYPES"`
}

// Validate applies struct-tag constraints and the cross-field rules the
// tags cannot express.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if _, err := c.ProviderOverrides(); err != nil {
		return err
	}
	if c.TelegramNotifications && c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_NOTIFICATIONS is set but TELEGRAM_BOT_TOKEN is empty")
	}
	return nil
}

// ProviderOverrides parses CONTENT_TYPE_PROVIDERS into a lookup table.
func (c Config) ProviderOverrides() (map[string]string, error) {
	overrides := make(map[string]string)
	if strings.TrimSpace(c.ContentTypeProviders) == "" {
		return overrides, nil
	}
	for _, pair := range strings.Split(c.ContentTypeProviders, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("CONTENT_TYPE_PROVIDERS entry %q must be content_type=provider", pair)
		}
		overrides[parts[0]] = parts[1]
	}
	return overrides, nil
}

// DisabledTypes parses DISABLED_CONTENT_TYPES into a trimmed list.
func (c Config) DisabledTypes() []string {
	if strings.TrimSpace(c.DisabledContentTypes) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(c.DisabledContentTypes, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
