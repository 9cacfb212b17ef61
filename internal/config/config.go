package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	DatabaseURL string        `envconfig:"DATABASE_URL"`
	RabbitURL   string        `envconfig:"RABBIT_URL"`
	Exchange    string        `envconfig:"GAME_EXCHANGE" default:"game.exchange"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	ClockTick   time.Duration `envconfig:"CLOCK_TICK" default:"1s"`
	RoomTTL     time.Duration `envconfig:"ROOM_TTL" default:"1h"`
}

// LoadDotEnv loads variables from a .env file if present. Variables already
// set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if cfg.ClockTick <= 0 {
		return Config{}, fmt.Errorf("loading config: CLOCK_TICK must be positive, got %s", cfg.ClockTick)
	}
	return cfg, nil
}
