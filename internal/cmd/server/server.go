// Package server parses server command flags and starts the game runtime.
package server

import (
	"context"
	"flag"
	"time"

	"github.com/louisbranch/liarsdice/internal/app/server"
	"github.com/louisbranch/liarsdice/internal/auth"
	entrypoint "github.com/louisbranch/liarsdice/internal/platform/cmd"
)

// Config holds server command configuration.
type Config struct {
	Port         int           `env:"LIARSDICE_PORT"          envDefault:"8080"`
	Addr         string        `env:"LIARSDICE_ADDR"`
	PublicURL    string        `env:"LIARSDICE_PUBLIC_URL"`
	ReapTTL      time.Duration `env:"LIARSDICE_REAP_TTL"      envDefault:"24h"`
	ReapInterval time.Duration `env:"LIARSDICE_REAP_INTERVAL" envDefault:"5m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address (overrides -port)")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "The externally reachable base URL used in join links")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game server.
func Run(ctx context.Context, cfg Config) error {
	tokens, err := auth.LoadConfigFromEnv(nil)
	if err != nil {
		return err
	}
	opts := server.Options{
		Tokens:       tokens,
		PublicURL:    cfg.PublicURL,
		ReapTTL:      cfg.ReapTTL,
		ReapInterval: cfg.ReapInterval,
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr, opts)
		}
		return server.Run(ctx, cfg.Port, opts)
	})
}
