package main

import (
	"context"

	"github.com/micollege/elms/internal/bootstrap"
	"github.com/micollege/elms/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		panic(err)
	}

	logger.InfoLog(ctx, "Starting ELMS API")
	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
		panic(err)
	}
}
