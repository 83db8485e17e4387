package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mqttop/internal/config"
	"mqttop/internal/ui"
	"mqttop/internal/util/logx"
	"mqttop/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("mqttop", version.String())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run TUI app
	logx.Infof("starting mqttop %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("mqttop exited with error: %v", err)
		fmt.Fprintln(os.Stderr, "mqttop:", err)
		os.Exit(1)
	}
}
