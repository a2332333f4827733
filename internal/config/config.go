package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Intake IntakeConfig
	Ai     AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	GatewayJWTSecret   string
}

type IntakeConfig struct {
	// RequirementChannelID is the shared backlog channel confirmed
	// requirements are posted to.
	RequirementChannelID string
	// DispatchBufferSize bounds each per-user inbox on the dispatcher.
	DispatchBufferSize int
	// InboundTopic is the internal bus topic carrying webhook events to the
	// dispatcher.
	InboundTopic string
}

type AIConfig struct {
	OllamaBaseURL string
	OllamaModel   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			GatewayJWTSecret:   getEnv("GATEWAY_JWT_SECRET", ""),
		},
		Intake: IntakeConfig{
			RequirementChannelID: getEnv("REQUIREMENT_CHANNEL_ID", "C09LE8XGHPZ"),
			DispatchBufferSize:   getEnvAsInt("DISPATCH_BUFFER_SIZE", 64),
			InboundTopic:         getEnv("INBOUND_EVENT_TOPIC_NAME", "CHAT_INBOUND_EVENT"),
		},
		Ai: AIConfig{
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
		},
	}
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
