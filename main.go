package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agroverse/cli"
	"agroverse/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.New(cli.Options{Config: cfg})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
