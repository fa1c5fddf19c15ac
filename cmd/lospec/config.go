package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// config holds the settings shared by every subcommand. Values come from
// the environment, optionally seeded from a .env file.
type config struct {
	LogLevel logrus.Level
	Assets   string
	DB       string
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "lospec.db"
	}
	return filepath.Join(dir, "lospec", "palettes.db")
}

// loadConfig reads LOSPEC_LOG_LEVEL, LOSPEC_ASSETS and LOSPEC_DB. Invalid
// levels fall back to info with a warning.
func loadConfig(log *logrus.Logger) config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}

	cfg := config{
		LogLevel: logrus.InfoLevel,
		Assets:   os.Getenv("LOSPEC_ASSETS"),
		DB:       os.Getenv("LOSPEC_DB"),
	}
	if s := os.Getenv("LOSPEC_LOG_LEVEL"); s != "" {
		level, err := logrus.ParseLevel(s)
		if err != nil {
			log.WithField("level", s).Warn("Unknown log level, using info")
		} else {
			cfg.LogLevel = level
		}
	}
	if cfg.Assets == "" {
		cfg.Assets = "."
	}
	if cfg.DB == "" {
		cfg.DB = defaultDBPath()
	}
	return cfg
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableSorting:   true,
	})
	return log
}
