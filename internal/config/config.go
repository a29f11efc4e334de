package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	HTTP_ADDR     string
	DATABASE_URL  string
	REDIS_ADDR    string
	KAFKA_ADDRESS string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	JWT_SECRET    string
	GEOCODING_URL string
	GEOCODING_KEY string
	LOG_LEVEL     string

	STORE_LAT       float64
	STORE_LNG       float64
	MAX_DELIVERY_KM float64

	FREE_SHIPPING_THRESHOLD float64
	DELIVERY_FLAT_FEE       float64
	TAX_RATE                float64
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:     getEnv("HTTP_ADDR", ":8080"),
		DATABASE_URL:  os.Getenv("DATABASE_URL"),
		REDIS_ADDR:    getEnv("REDIS_ADDR", "localhost:6379"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		GEOCODING_URL: getEnv("GEOCODING_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GEOCODING_KEY: os.Getenv("GEOCODING_KEY"),
		LOG_LEVEL:     getEnv("LOG_LEVEL", "info"),

		STORE_LAT:       getEnvFloat("STORE_LAT", -2.196160),
		STORE_LNG:       getEnvFloat("STORE_LNG", -79.886207),
		MAX_DELIVERY_KM: getEnvFloat("MAX_DELIVERY_KM", 10),

		FREE_SHIPPING_THRESHOLD: getEnvFloat("FREE_SHIPPING_THRESHOLD", 50),
		DELIVERY_FLAT_FEE:       getEnvFloat("DELIVERY_FLAT_FEE", 5),
		TAX_RATE:                getEnvFloat("TAX_RATE", 0.12),
	}

	return config, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
