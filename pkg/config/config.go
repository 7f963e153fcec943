package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	StorageBucket   string
	Environment     string

	// Dispute engine knobs. Each has a floor applied at load time so a bad
	// deployment cannot disable the protection it backs.
	DisputeWindowHours        int // buyer may open a dispute until delivery + window
	SellerResponseHours       int // seller must answer before auto-escalation
	MonthlyDisputeQuota       int // max disputes a buyer may open per calendar month
	SuspiciousClientThreshold int // monthly filings that flag a client
	SuspiciousSellerThreshold int // monthly filings against a seller that flag them
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),

		DisputeWindowHours:        getEnvAsIntWithFloor("DISPUTE_WINDOW_HOURS", 72, 24),
		SellerResponseHours:       getEnvAsIntWithFloor("SELLER_RESPONSE_HOURS", 48, 12),
		MonthlyDisputeQuota:       getEnvAsIntWithFloor("MONTHLY_DISPUTE_QUOTA", 5, 1),
		SuspiciousClientThreshold: getEnvAsIntWithFloor("SUSPICIOUS_CLIENT_THRESHOLD", 4, 3),
		SuspiciousSellerThreshold: getEnvAsIntWithFloor("SUSPICIOUS_SELLER_THRESHOLD", 10, 6),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsIntWithFloor(key string, defaultValue, floor int) int {
	value := defaultValue
	if raw, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(raw); err == nil {
			value = parsed
		}
	}
	if value < floor {
		value = floor
	}
	return value
}
