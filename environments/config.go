package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	WhatsApp  WhatsAppConfig
	TikTok    TikTokConfig
	Telegram  TelegramConfig
	Message   MessageConfig
	Scheduler SchedulerConfig
	Alert     AlertConfig
	Auth      AuthConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type WhatsAppConfig struct {
	APIURL        string
	PhoneNumberID string
	AccessToken   string
	Timeout       time.Duration
}

type TikTokConfig struct {
	APIURL      string
	AccessToken string
	Timeout     time.Duration
}

type TelegramConfig struct {
	BotToken      string
	RatePerSecond int
}

type MessageConfig struct {
	MaxContentLength int
}

type SchedulerConfig struct {
	DefaultCronExpression string
	Timezone              string
}

type AlertConfig struct {
	WebhookURL     string
	IterationCount int
	Timeout        time.Duration
}

type AuthConfig struct {
	APIToken string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "dispatcher"),
			Password: GetEnv("DB_PASSWORD", "dispatcher123"),
			DBName:   GetEnv("DB_NAME", "scheduled_messages"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		WhatsApp: WhatsAppConfig{
			APIURL:        GetEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
			PhoneNumberID: GetEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			AccessToken:   GetEnv("WHATSAPP_ACCESS_TOKEN", ""),
			Timeout:       time.Duration(GetEnvAsInt("WHATSAPP_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		TikTok: TikTokConfig{
			APIURL:      GetEnv("TIKTOK_API_URL", ""),
			AccessToken: GetEnv("TIKTOK_ACCESS_TOKEN", ""),
			Timeout:     time.Duration(GetEnvAsInt("TIKTOK_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Telegram: TelegramConfig{
			BotToken:      GetEnv("TELEGRAM_BOT_TOKEN", ""),
			RatePerSecond: GetEnvAsInt("TELEGRAM_RATE_PER_SECOND", 25),
		},
		Message: MessageConfig{
			MaxContentLength: GetEnvAsInt("MESSAGE_MAX_CONTENT_LENGTH", 500),
		},
		Scheduler: SchedulerConfig{
			DefaultCronExpression: GetEnv("DEFAULT_CRON_EXPRESSION", "*/5 * * * *"),
			Timezone:              GetEnv("TZ", "America/Bogota"),
		},
		Alert: AlertConfig{
			WebhookURL:     GetEnv("ALERT_WEBHOOK_URL", ""),
			IterationCount: GetEnvAsInt("ALERT_ITERATION_COUNT", 0),
			Timeout:        time.Duration(GetEnvAsInt("ALERT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Auth: AuthConfig{
			APIToken: GetEnv("API_TOKEN", ""),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Pretty: GetEnvAsBool("LOG_PRETTY", false),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
