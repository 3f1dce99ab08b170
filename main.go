package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/va6996/agenttools/bootstrap"
	"github.com/va6996/agenttools/config"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/server"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 0. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}

	// Initialize logging
	log.Init(cfg.Log.Level)

	// 1-4. Init App Components using Bootstrap
	app, err := bootstrap.Setup(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf(context.Background(), "Setup failed: %v", err)
	}

	// 5. Start API Server
	mux := http.NewServeMux()
	mux.Handle(server.NewToolServiceHandler(server.NewToolServer(app.Registry, cfg.DefaultCredentials())))

	// Use h2c for HTTP/2 without TLS (common for dev and internal services)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: h2c.NewHandler(server.WithCORS(mux), &http2.Server{}),
	}

	go func() {
		<-ctx.Done()
		log.Info(context.Background(), "Shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Errorf(context.Background(), "Shutdown failed: %v", err)
		}
	}()

	log.Infof(context.Background(), "Starting server on port %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf(context.Background(), "Server failed: %v", err)
	}
}
