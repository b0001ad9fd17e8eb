package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"10000"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3001"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Empty brokers disable the trade-event publisher.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"p2p.trade-events"`

	// How long the buyer has to pay before a waiting trade expires.
	PaymentWindow time.Duration `env:"PAYMENT_WINDOW" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"15s"`
	OfferCacheTTL time.Duration `env:"OFFER_CACHE_TTL" envDefault:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	return cfg, env.Parse(&cfg)
}
