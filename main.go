package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"alertbridge/internal"
	"alertbridge/pkg/providers/github"
	"alertbridge/webhook"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := internal.NewLogger("server")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	config, err := internal.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	auth, err := github.NewAppAuth(github.AppConfig{
		AppID:          config.GitHub.AppID,
		PrivateKeyPath: config.GitHub.PrivateKeyPath,
		PrivateKey:     config.GitHub.PrivateKey,
		BaseURL:        config.GitHub.BaseURL,
	})
	if err != nil {
		logger.Fatalf("github app auth: %v", err)
	}

	dispatcher := github.NewDispatchClient(config.Dispatch.EventType, config.GitHub.BaseURL)

	handler, err := webhook.NewGitHubHandler(webhook.HandlerConfig{
		Secret:       config.GitHub.WebhookSecret,
		MaxBodyBytes: config.Server.MaxBodyBytes,
		Timeout:      time.Duration(config.Dispatch.TimeoutMS) * time.Millisecond,
	}, auth, dispatcher, logger)
	if err != nil {
		logger.Fatalf("webhook handler: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", webhook.HealthHandler())
	mux.Handle("/webhook", handler)
	mux.Handle("/", handler)
	if config.Server.MetricsEnabled {
		mux.Handle(config.Server.MetricsPath, promhttp.Handler())
	}

	limited := internal.NewRateLimitHandler(
		mux,
		config.Server.RateLimitRPS,
		config.Server.RateLimitBurst,
		time.Duration(config.Server.IdleTimeoutMS)*time.Millisecond,
	)

	addr := ":" + strconv.Itoa(config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           limited,
		ReadTimeout:       time.Duration(config.Server.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:      time.Duration(config.Server.WriteTimeoutMS) * time.Millisecond,
		IdleTimeout:       time.Duration(config.Server.IdleTimeoutMS) * time.Millisecond,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderMS) * time.Millisecond,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}
