package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/breachtrack/internal/cli"
	"github.com/idilsaglam/breachtrack/internal/config"
)

func main() {
	config.LoadDotenv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
