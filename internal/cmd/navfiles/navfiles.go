// Package navfiles parses map service configuration and launches the service.
package navfiles

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/navfiles/internal/platform/cmd"
	"github.com/louisbranch/navfiles/internal/platform/logging"
	server "github.com/louisbranch/navfiles/internal/services/navfiles/app"
)

// Config holds navfiles command configuration. Every field reads a
// NAVFILES_-prefixed environment variable.
type Config struct {
	Port             int           `env:"PORT" envDefault:"9600"`
	PlatformURL      string        `env:"PLATFORM_URL" envDefault:"127.0.0.1:9559"`
	MapsDir          string        `env:"MAPS_DIR" envDefault:"/home/nao/.local/share/Explorer/"`
	DBPath           string        `env:"DB_PATH" envDefault:"data/navfiles.db"`
	RequiredServices []string      `env:"REQUIRED_SERVICES" envDefault:"ALMemory" envSeparator:","`
	GateDeadline     time.Duration `env:"GATE_DEADLINE" envDefault:"30s"`
	GatePollInterval time.Duration `env:"GATE_POLL_INTERVAL" envDefault:"2s"`
	MetricsAddr      string        `env:"METRICS_ADDR"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON          bool          `env:"LOG_JSON"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.PlatformURL, "platform-url", cfg.PlatformURL, "Platform gRPC address used to look up required services")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the map service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceNavFiles, func(ctx context.Context) error {
		return server.Run(ctx, cfg.serverConfig())
	})
}

func (c Config) serverConfig() server.Config {
	return server.Config{
		Port:             c.Port,
		PlatformURL:      c.PlatformURL,
		MapsDir:          c.MapsDir,
		DBPath:           c.DBPath,
		RequiredServices: c.RequiredServices,
		GateDeadline:     c.GateDeadline,
		GatePollInterval: c.GatePollInterval,
		MetricsAddr:      c.MetricsAddr,
		Log: logging.New(entrypoint.ServiceNavFiles, logging.Options{
			Level: c.LogLevel,
			JSON:  c.LogJSON,
		}),
	}
}
