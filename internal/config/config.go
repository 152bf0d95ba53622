package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "courier"),
		DBPassword: getEnv("DB_PASSWORD", "courier_dev_password"),
		DBName:     getEnv("DB_NAME", "courier"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:     time.Duration(getEnvInt("JWT_TTL_MINUTES", 24*60)) * time.Minute,
		BcryptCost: getEnvInt("BCRYPT_COST", 12),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
