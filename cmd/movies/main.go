package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"MovieStore/internal/config"
	"MovieStore/internal/movies"
	"MovieStore/pkg/kit"
)

func main() {
	service := "movies"

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := movies.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	}
	if cfg.WriteRateRPS > 0 {
		deps.WriteLimiter = kit.NewIPRateLimiter(cfg.WriteRateRPS, cfg.WriteRateBurst)
	}

	s := &movies.Server{Store: movies.NewStore(), Log: log}
	h := movies.NewHandler(s, deps)

	if err := kit.RunHTTPServer(context.Background(), cfg.Addr, h, log, cfg.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
