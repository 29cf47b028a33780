package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	server "five-a-side/server"
	servernet "five-a-side/server/internal/net"
)

type Config struct {
	Addr          string `config:"FIELD_ADDR"`
	Physics       bool   `config:"FIELD_PHYSICS"`
	PlayerProxies bool   `config:"FIELD_PLAYER_PROXIES"`
	PrettyLogs    bool   `config:"FIELD_PRETTY_LOGS"`
	ClientDir     string `config:"FIELD_CLIENT_DIR"`
	LogLevel      string `config:"FIELD_LOG_LEVEL"`
}

func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		Physics:  true,
		LogLevel: "info",
	}
}

func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config")
	}
	return cfg, nil
}

func newLogger(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.PrettyLogs {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// Run wires configuration, logging, the hub and the HTTP surface, then
// serves until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	hubCfg := server.DefaultConfig()
	hubCfg.Physics = cfg.Physics
	hubCfg.PlayerProxies = cfg.PlayerProxies
	hubCfg.Logger = logger
	hub := server.NewHub(hubCfg)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir: cfg.ClientDir,
		Logger:    logger,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info().
		Str("addr", cfg.Addr).
		Bool("physics", cfg.Physics).
		Bool("playerProxies", cfg.PlayerProxies).
		Msg("server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "shutdown")
		}
		return nil
	case err := <-errCh:
		return eris.Wrap(err, "server failed")
	}
}
