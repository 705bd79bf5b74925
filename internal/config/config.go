package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort   string
	GinMode      string
	DataDir      string
	SdkBridgeURL string
	Proxy        ProxyConfig
	Notify       NotifyConfig
	Kafka        KafkaConfig
	Logging      LoggerConfig
}

// ProxyConfig содержит настройки пула прокси
type ProxyConfig struct {
	MaxAccountsPerProxy int
}

// NotifyConfig содержит адреса внешних уведомлений о статусе аккаунтов
type NotifyConfig struct {
	LoginURL  string
	LogoutURL string
}

// KafkaConfig содержит настройки зеркалирования событий в Kafka
type KafkaConfig struct {
	Enable bool
	Broker string
	Topic  string
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:   getEnv("APP_PORT", "8081"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SdkBridgeURL: getEnv("SDK_BRIDGE_URL", "http://localhost:3100"),
		Proxy: ProxyConfig{
			MaxAccountsPerProxy: getEnvAsInt("PROXY_MAX_ACCOUNTS", 3),
		},
		Notify: NotifyConfig{
			LoginURL:  getEnv("NOTIFY_LOGIN_URL", ""),
			LogoutURL: getEnv("NOTIFY_LOGOUT_URL", ""),
		},
		Kafka: KafkaConfig{
			Enable: getEnvAsBool("KAFKA_ENABLE", false),
			Broker: getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:  getEnv("KAFKA_TOPIC", "chat_events"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}
