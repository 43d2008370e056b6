package main

import (
	"context"

	"lodge/config"
	"lodge/di"
	"lodge/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	sweeper := di.InitializeSweeper()
	go sweeper.Run(context.Background())

	http := di.InitializeService()
	http.Serve()
}
