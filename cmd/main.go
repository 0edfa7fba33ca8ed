package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/admin/astromood/chart-api/internal/app"
)

const (
	appName   = "astromood"
	envPrefix = "ASTROMOOD"
)

func main() {
	cfg, err := app.NewEnvConfig(envPrefix)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := app.New(appName, cfg)

	if err := app.Run(ctx); err != nil {
		panic(err)
	}
}
