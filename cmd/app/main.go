package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"GoldCast/internal/di"
	"GoldCast/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envFile := flag.String("env", ".env", "optional dotenv file loaded before the config")
	checkOnly := flag.Bool("check", false, "validate the configuration and exit")
	flag.Parse()

	// a missing .env is fine; real environment variables still apply
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv %s: %v", *envFile, err)
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *checkOnly {
		log.Printf("config ok: symbol=%s feed=%s storage=%s events=%t",
			cfg.Engine.Symbol, cfg.Feed.Type, cfg.Storage.Type, cfg.Events.Enabled)
		return
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
