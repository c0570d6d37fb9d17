package main

import (
	"context"
	"flag"
	"github.com/iamvkosarev/repair-chat-bot/config"
	"github.com/iamvkosarev/repair-chat-bot/internal/app"
	"github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx, cfg); err != nil {
		logrus.Fatalf("app stopped: %v", err)
	}
}
