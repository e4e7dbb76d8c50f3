package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"smsbot/internal/domain"
)

const (
	TransportPolling = "polling"
	TransportWebhook = "webhook"
)

type BotConfig struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// Telegram
	TelegramBotToken    string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	TelegramAPIEndpoint string `envconfig:"TELEGRAM_API_ENDPOINT"`
	TelegramPollTimeout int    `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"60"`
	TransportMode       string `envconfig:"TRANSPORT_MODE" default:"polling"`
	WebhookURL          string `envconfig:"TELEGRAM_WEBHOOK_URL"`
	WebhookSecret       string `envconfig:"TELEGRAM_WEBHOOK_SECRET"`

	// MekongSMS
	GatewayURL      string        `envconfig:"MEKONG_API_URL" default:"https://sandbox.mekongsms.com/api/postsms.aspx"`
	GatewayUsername string        `envconfig:"MEKONG_USERNAME" required:"true"`
	GatewayPassword string        `envconfig:"MEKONG_PASSWORD" required:"true"`
	GatewaySender   string        `envconfig:"MEKONG_SENDER" default:"MKN UAT"`
	GatewayCD       string        `envconfig:"MEKONG_CD" default:"Test001"`
	GatewayInt      string        `envconfig:"MEKONG_INT" default:"1"`
	GatewayTimeout  time.Duration `envconfig:"MEKONG_TIMEOUT" default:"15s"`

	BreakerEnabled     bool          `envconfig:"GATEWAY_BREAKER_ENABLED" default:"false"`
	BreakerMaxFailures uint32        `envconfig:"GATEWAY_BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `envconfig:"GATEWAY_BREAKER_OPEN_TIMEOUT" default:"30s"`
}

type MockGatewayConfig struct {
	Port      string `envconfig:"PORT" default:"8090"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	Username string `envconfig:"MOCK_USERNAME"`
	Password string `envconfig:"MOCK_PASSWORD"`

	// comma separated: ok, reject, http500, timeout
	OutcomesRaw    string `envconfig:"MOCK_OUTCOMES" default:"ok"`
	DelayMs        int    `envconfig:"MOCK_DELAY_MS" default:"0"`
	TimeoutDelayMs int    `envconfig:"MOCK_TIMEOUT_DELAY_MS" default:"20000"`
}

// Validate checks the rules envconfig tags cannot express.
func (c BotConfig) Validate() error {
	if strings.TrimSpace(c.GatewayUsername) == "" || strings.TrimSpace(c.GatewayPassword) == "" {
		return domain.ErrMissingCredentials
	}
	switch c.TransportMode {
	case TransportPolling:
	case TransportWebhook:
		if c.WebhookURL == "" {
			return domain.ErrMissingWebhookURL
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidTransportMode, c.TransportMode)
	}
	if c.GatewayTimeout <= 0 {
		return errors.New("MEKONG_TIMEOUT must be positive")
	}
	return nil
}

// LoadDotEnv reads a .env file if one exists. Real environment variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func ProcessBot() (BotConfig, error) {
	var cfg BotConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return BotConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return BotConfig{}, err
	}
	return cfg, nil
}

func LoadBot() BotConfig {
	cfg, err := ProcessBot()
	if err != nil {
		panic(err)
	}
	return cfg
}

func LoadMockGateway() MockGatewayConfig {
	var cfg MockGatewayConfig
	if err := envconfig.Process("", &cfg); err != nil {
		panic(err)
	}
	return cfg
}
