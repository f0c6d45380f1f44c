package config

import (
	"towerdb/pkg/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SpreadsheetID        string `mapstructure:"SPREADSHEET_ID"`
	SpreadsheetSheet     string `mapstructure:"SPREADSHEET_SHEET"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	ReloadSchedule       string `mapstructure:"RELOAD_SCHEDULE"`
	ImportSkipInvalid    bool   `mapstructure:"IMPORT_SKIP_INVALID"`
	LogLevel             string `mapstructure:"LOG_LEVEL"`
	LogFormat            string `mapstructure:"LOG_FORMAT"`
}

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"SPREADSHEET_ID", "SPREADSHEET_SHEET", "SCHEDULER_ENABLED", "RELOAD_SCHEDULE",
	"IMPORT_SKIP_INVALID",
	"LOG_LEVEL", "LOG_FORMAT",
}

var ConfigInstance Config

func New() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("SPREADSHEET_SHEET", "Ely DA towers")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("RELOAD_SCHEDULE", "0 2 * * *")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.AutomaticEnv()

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	if v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	logger.Configure(logger.Options{
		Format: logger.ParseFormat(config.LogFormat),
		Level:  logger.ParseLevel(config.LogLevel),
	})

	ConfigInstance = config
	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.SchedulerEnabled && config.SpreadsheetID == "" {
		return log.ErrMsg("Fatal error: SPREADSHEET_ID required when SCHEDULER_ENABLED is set")
	}

	return nil
}
