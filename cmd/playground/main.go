package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nulzo/image-playground/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
