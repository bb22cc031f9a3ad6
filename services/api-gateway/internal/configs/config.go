package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the whole gateway configuration.
type Config struct {
	Port string

	AuthServiceURL          string
	TasksServiceURL         string
	NotificationsServiceURL string

	AllowedOrigins []string

	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	AppName      string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// LoadConfig loads configuration from environment variables.
// A missing .env file is not an error, the environment may already be set.
func LoadConfig(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment variables.\n", envPath, err)
	}

	cfg := &Config{
		Port: getEnvAsString("GATEWAY_PORT", "8080"),

		AuthServiceURL:          getEnvAsString("AUTH_SERVICE_URL", "http://localhost:8081"),
		TasksServiceURL:         getEnvAsString("TASKS_SERVICE_URL", "http://localhost:8082"),
		NotificationsServiceURL: getEnvAsString("NOTIFICATIONS_SERVICE_URL", "http://localhost:8083"),

		AppName: getEnvAsString("APP_NAME", "api-gateway"),
	}

	cfg.AllowedOrigins = strings.Split(getEnvAsString("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ",")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
