package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/handler"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/server"
	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("sprintboard-presence")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.HTTPAddress).Dur("request_timeout", cfg.RequestTimeout).Msg("received configs")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	storages := store.NewStorages(log)
	services := service.NewServices(storages, registry, log)

	serverCfg := config.Server{
		HTTPAddress:    cfg.HTTPAddress,
		RequestTimeout: cfg.RequestTimeout,
		TokenKey:       cfg.TokenKey,
	}

	handlers, err := handler.NewHandlers(services, serverCfg, registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, serverCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
