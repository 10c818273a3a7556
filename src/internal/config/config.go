package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 服務設定
//
// 由 .env（可省略）與環境變數載入，未設定時使用預設值。
type Config struct {
	Port        string
	Environment string
	Timezone    string // 營業日與出貨日計算使用的時區

	// 資料庫
	DBPath           string
	TxMaxRetries     int
	TxRetryBaseDelay time.Duration
	TxRetryMaxDelay  time.Duration

	// Kafka（關閉或連線失敗時改用記憶體發布器）
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaTopicInventory string
	KafkaTopicSales     string
	KafkaClientID       string
	KafkaRetries        int

	// Redis（關閉或連線失敗時改用記憶體快取）
	RedisEnabled     bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ShippingCacheTTL time.Duration
}

// IsProduction 是否為正式環境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load 載入設定
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Timezone:    getEnv("TIMEZONE", "Asia/Tokyo"),

		DBPath:           getEnv("DB_PATH", "pos.db"),
		TxMaxRetries:     getEnvAsInt("TX_MAX_RETRIES", 3),
		TxRetryBaseDelay: time.Duration(getEnvAsInt("TX_RETRY_BASE_DELAY_MS", 50)) * time.Millisecond,
		TxRetryMaxDelay:  time.Duration(getEnvAsInt("TX_RETRY_MAX_DELAY_MS", 5000)) * time.Millisecond,

		KafkaEnabled:        getEnvAsBool("KAFKA_ENABLED", false),
		KafkaBrokers:        splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopicInventory: getEnv("KAFKA_TOPIC_INVENTORY", "pos.inventory"),
		KafkaTopicSales:     getEnv("KAFKA_TOPIC_SALES", "pos.sales"),
		KafkaClientID:       getEnv("KAFKA_CLIENT_ID", "pos-backoffice"),
		KafkaRetries:        getEnvAsInt("KAFKA_RETRIES", 3),

		RedisEnabled:     getEnvAsBool("REDIS_ENABLED", false),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		ShippingCacheTTL: time.Duration(getEnvAsInt("SHIPPING_CACHE_TTL_SECONDS", 300)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}

// splitList 逗號分隔，去除空白與空項目
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
