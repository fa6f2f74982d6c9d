package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/taskboard/internal/config"
)

var globalReminderConfig *config.ReminderConfig

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("read env")

	config.SetGlobal(cfg)
}

func MustReadReminderEnv() {
	cfg, err := config.NewEnvReader().ReadReminder()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read reminder env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("api_url", cfg.APIURL).
		Msg("read reminder env")

	globalReminderConfig = cfg
}
