package config

import (
	"log"
	"os"
)

type Config struct {
	Port      string
	DBDSN     string
	MediaDir  string
	LogFile   string
	AMQPURL   string // empty disables event publishing
	AMQPQueue string
}

func Load() Config {
	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		DBDSN:     getEnv("DB_DSN", "suplementia.db"), // sqlite file in project root
		MediaDir:  getEnv("MEDIA_DIR", "./web/media"),
		LogFile:   getEnv("LOG_FILE", "./suplementia.log"),
		AMQPURL:   getEnv("AMQP_URL", ""),
		AMQPQueue: getEnv("AMQP_QUEUE", "order_events"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s AMQP_QUEUE=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.AMQPQueue)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
