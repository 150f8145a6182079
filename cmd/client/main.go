package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Testify/internal/cli/commands"
	"Testify/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion(cfg)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

// printVersion печатает версию и текущий сервер с файлом токена
func printVersion(cfg *config.Config) {
	fmt.Printf("Testify CLI\nVersion: %s\nBuild date: %s\nServer: %s\nToken file: %s\n",
		version, buildDate, cfg.ServerURL, cfg.TokenFile)
}
