package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  []string
	KafkaTopic    string
	JWTSecret     string
	ListenAddr    string
}

// LoadConfig reads .env when present and falls back to local defaults.
func LoadConfig() *Config {
	// missing .env is fine; the environment may be set directly
	_ = godotenv.Load()

	return &Config{
		Host:          getEnv("DB_HOST", "127.0.0.1"),
		Port:          getEnv("DB_PORT", "3306"),
		User:          getEnv("DB_USER", "root"),
		Password:      getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "marketplace"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		KafkaBrokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:    getEnv("KAFKA_ORDER_TOPIC", "order-topic"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
	}
}

// DSN builds the mysql connection string. parseTime is required so
// TIMESTAMP columns scan into time.Time.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.User, c.Password, c.Host, c.Port, c.DBName)
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
