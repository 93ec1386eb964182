package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sprintboard/sprintboard/internal/client"
	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("sprintboard-client").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("sprintboard-client", cfg.App.LogFile)

	app, err := client.NewApp(context.Background(), cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
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
