package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"admin-password-reset/config"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*config.Config, error) {
	cfg := &config.Config{
		DatabaseURL:        getEnv("MONGODB_URL", getEnv("DATABASE_URL", "")),
		DatabaseName:       getEnv("DATABASE_NAME", ""),
		CollectionUserName: getEnv("USERS_COLLECTION", config.DefaultCollectionName),
		Username:           getEnv("RESET_USERNAME", config.DefaultUsername),
		NewPassword:        os.Getenv("NEW_PASSWORD"),
		ConnectTimeout:     config.DefaultConnectTimeout,
		BcryptCost:         config.DefaultBcryptCost,
	}

	if raw := getEnv("CONNECT_TIMEOUT", ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: CONNECT_TIMEOUT: %v", config.ErrInvalidConfig, err)
		}
		cfg.ConnectTimeout = timeout
	}

	if raw := getEnv("BCRYPT_COST", ""); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: BCRYPT_COST: %v", config.ErrInvalidConfig, err)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
