package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config carries the CLI-layer defaults. The core client knows nothing
// about the environment; everything here is handed to it explicitly.
type Config struct {
	// Port is used when the host argument does not name one.
	Port int `env:"RCON_PORT,default=25575"`

	// Timeout bounds each request/response round trip.
	Timeout time.Duration `env:"RCON_TIMEOUT,default=15s"`

	// Debug enables debug logging, including per-frame traces.
	Debug bool `env:"RCON_DEBUG"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
