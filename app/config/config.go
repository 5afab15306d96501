package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log          Log          `yaml:"log"`
	Server       Server       `yaml:"server"`
	Loop         Loop         `yaml:"loop"`
	Reasoning    Reasoning    `yaml:"reasoning"`
	Nearby       Nearby       `yaml:"nearby"`
	Dashboard    Dashboard    `yaml:"dashboard"`
	Conversation Conversation `yaml:"conversation"`
}

type Server struct {
	// Port to listen for webhook calls on
	Port int `yaml:"port" example:"3000"`
}

type Loop struct {
	// Base url of the messaging provider
	BaseURL string `yaml:"base_url" example:"https://server.loopmessage.com" validate:"required"`
	// Bearer token for outbound sends
	AuthToken string `yaml:"auth_token" validate:"required"`
	// Secret key sent in the Loop-Secret-Key header
	SecretKey string `yaml:"secret_key" validate:"required"`
}

type Reasoning struct {
	// Base url of the reasoning service
	BaseURL string `yaml:"base_url" example:"http://localhost:8090" validate:"required"`
	// Per-call timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds" example:"30"`
	// Maximum tool rounds before the decision loop fails closed
	MaxToolRounds int `yaml:"max_tool_rounds" example:"3"`
}

type Nearby struct {
	// Base url of the nearby facility/weather lookup service
	BaseURL string `yaml:"base_url" example:"http://localhost:8091" validate:"required"`
}

type Dashboard struct {
	// Base url of the responder dashboard
	BaseURL string `yaml:"base_url" example:"http://localhost:3001" validate:"required"`
}

type Conversation struct {
	// Number of transcript entries given to the reasoning service
	HistorySize int `yaml:"history_size" example:"20"`
	// Minutes until a sender's transient context expires
	ContextTTLMinutes int `yaml:"context_ttl_minutes" example:"30"`
	// Minimum message length to count as an incident description
	MinDescriptionLength int `yaml:"min_description_length" example:"25"`
	// Directory for the file-backed stores
	DataDir string `yaml:"data_dir" example:"data"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func (r Reasoning) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

func (c Conversation) ContextTTL() time.Duration {
	return time.Duration(c.ContextTTLMinutes) * time.Minute
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Port == 0 {
		result.Server.Port = 3000
	}
	if result.Reasoning.TimeoutSeconds == 0 {
		result.Reasoning.TimeoutSeconds = 30
	}
	if result.Reasoning.MaxToolRounds == 0 {
		result.Reasoning.MaxToolRounds = 3
	}
	if result.Conversation.HistorySize == 0 {
		result.Conversation.HistorySize = 20
	}
	if result.Conversation.ContextTTLMinutes == 0 {
		result.Conversation.ContextTTLMinutes = 30
	}
	if result.Conversation.MinDescriptionLength == 0 {
		result.Conversation.MinDescriptionLength = 25
	}
	if result.Conversation.DataDir == "" {
		result.Conversation.DataDir = "data"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
