package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Admin phone, digits only. Matching against inbound senders is tolerant
	// to a missing country code, see bot.IsAdminPhone.
	AdminPhone string

	// Evolution API gateway
	EvolutionBaseURL  string
	EvolutionInstance string
	EvolutionAPIKey   string

	// OpenAI
	OpenAIKey          string
	OpenAIModel        string
	OpenAIWhisperModel string

	// Database: sqlite by default, postgres when DBHost is set
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	// Dispatch engine tuning
	DispatchBatchSize    int
	DispatchMessageDelay time.Duration
	ReminderLeadMinutes  int
	BroadcastDelay       time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:               getEnv("PORT", "8081"),
		AdminPhone:         getEnv("ADMIN_PHONE", ""),
		EvolutionBaseURL:   getEnv("EVOLUTION_BASE_URL", "http://localhost:8080"),
		EvolutionInstance:  getEnv("EVOLUTION_INSTANCE", "barberbot"),
		EvolutionAPIKey:    getEnv("EVOLUTION_API_KEY", ""),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIWhisperModel: getEnv("OPENAI_WHISPER_MODEL", "whisper-1"),
		DBPath:             getEnv("DB_PATH", "./barberbot.db"),
		DBHost:             getEnv("DB_HOST", ""),
		DBUser:             getEnv("DB_USER", "barberbot"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "barberbot"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),

		DispatchBatchSize:    getEnvInt("DISPATCH_BATCH_SIZE", 20),
		DispatchMessageDelay: time.Duration(getEnvInt("DISPATCH_MESSAGE_DELAY_MS", 3000)) * time.Millisecond,
		ReminderLeadMinutes:  getEnvInt("REMINDER_LEAD_MINUTES", 60),
		BroadcastDelay:       time.Duration(getEnvInt("BROADCAST_DELAY_MS", 3000)) * time.Millisecond,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using %d", key, fallback)
	}
	return fallback
}
