package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Bot      BotConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ChatEventTopic     string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	// Comma separated moderator addresses for High severity alert mail
	AlertRecipients []string
}

type APIKeys struct {
	Perspective string
	Classifier  string
	BotToken    string
}

type BotConfig struct {
	// Display name of the bot account on the chat platform,
	// must match "Group <number> Bot"
	DisplayName string
	UserID      string
	GuildID     string
	GatewayURL  string
	GroupNum    string
}

var botNamePattern = regexp.MustCompile(`[gG]roup (\d+) [bB]ot`)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ChatEventTopic:     getEnv("CHAT_EVENT_TOPIC_NAME", "CHAT_EVENTS"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:            getEnv("SMTP_HOST", ""),
			Port:            getEnvAsInt("SMTP_PORT", 587),
			Email:           getEnv("SMTP_EMAIL", ""),
			Password:        getEnv("SMTP_PASSWORD", ""),
			SenderName:      getEnv("SMTP_SENDER_NAME", "ModBot"),
			AlertRecipients: splitList(getEnv("ALERT_RECIPIENTS", "")),
		},
		Keys: APIKeys{
			Perspective: getEnv("PERSPECTIVE_API_KEY", ""),
			Classifier:  getEnv("CLASSIFIER_API_KEY", ""),
			BotToken:    getEnv("BOT_TOKEN", ""),
		},
		Bot: BotConfig{
			DisplayName: getEnv("BOT_DISPLAY_NAME", ""),
			UserID:      getEnv("BOT_USER_ID", ""),
			GuildID:     getEnv("GUILD_ID", ""),
			GatewayURL:  getEnv("CHAT_GATEWAY_URL", "http://localhost:8081"),
		},
	}
}

// ResolveGroupNum parses the group number out of the bot's display name.
// Startup must fail when the name does not follow the platform convention.
func (c *Config) ResolveGroupNum() error {
	match := botNamePattern.FindStringSubmatch(c.Bot.DisplayName)
	if match == nil {
		return fmt.Errorf("group number not found in bot name %q, name format should be \"Group # Bot\"", c.Bot.DisplayName)
	}
	c.Bot.GroupNum = match[1]
	return nil
}

// Channel name conventions for a group.
func (c *Config) GroupChannel() string { return "group-" + c.Bot.GroupNum }
func (c *Config) ModChannel() string   { return "group-" + c.Bot.GroupNum + "-mod" }
func (c *Config) CommitteeChannel() string {
	return "group-" + c.Bot.GroupNum + "-3-person-review-team"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
