// Package main is the entry point for the animated scene viewer.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/animscene/internal/app"
	"github.com/Faultbox/animscene/internal/config"
	"github.com/Faultbox/animscene/internal/logger"
)

func init() {
	// SDL and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", config.UserConfigPath())
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error("scene error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("scene closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	logger.Info("=== Animated Scene ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg, logger.Log)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer a.Close()

	return a.Run()
}
