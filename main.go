package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freekieb7/minihttp/config"
	"github.com/freekieb7/minihttp/filesystem"
	"github.com/freekieb7/minihttp/http"
	"github.com/freekieb7/minihttp/telemetry"
)

func main() {
	var (
		host       = flag.String("host", "", "listen host (default 0.0.0.0)")
		port       = flag.Int("port", -1, "listen port (default 8080)")
		configFile = flag.String("config", "", "YAML or TOML config file")
	)
	flag.Parse()

	if *configFile != "" {
		os.Setenv(config.EnvConfigFile, *configFile)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port >= 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Level:       level,
		Output:      os.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	logger := tel.Logger

	measure, err := http.Measure(tel.Meter())
	if err != nil {
		return err
	}

	router := http.NewRouter(filesystem.NewLocalFileSystem(cfg.Assets.Root), logger, http.DefaultRoutes()...)
	handler := http.Chain(router.Handler(),
		http.Trace(tel.Tracer()),
		measure,
		http.LogPhase(logger, "REQUEST HANDLING"),
	)

	server := http.NewServer(cfg.Server.Name, handler, logger)
	server.ReadBufferSize = cfg.Server.ReadBufferSize

	logger.InfoContext(ctx, "starting server", "addr", cfg.ServerAddress(), "backlog", cfg.Server.Backlog)
	return server.ListenAndServe(ctx, cfg.Server.Host, cfg.Server.Port, cfg.Server.Backlog)
}
