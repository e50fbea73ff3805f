package config

import (
	"tidyops/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion            string  `mapstructure:"GENERAL_VERSION"`
	Environment               string  `mapstructure:"ENVIRONMENT"`
	ServerPort                int     `mapstructure:"SERVER_PORT"`
	DatabaseHost              string  `mapstructure:"DB_HOST"`
	DatabasePort              int     `mapstructure:"DB_PORT"`
	DatabaseName              string  `mapstructure:"DB_NAME"`
	DatabaseUser              string  `mapstructure:"DB_USER"`
	DatabasePassword          string  `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress      string  `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort         int     `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins          string  `mapstructure:"CORS_ALLOW_ORIGINS"`
	SchedulerEnabled          bool    `mapstructure:"SCHEDULER_ENABLED"`
	AutoAssignEnabled         bool    `mapstructure:"AUTO_ASSIGN_ENABLED"`
	DefaultMaxTasksPerDay     int     `mapstructure:"DEFAULT_MAX_TASKS_PER_DAY"`
	QualityCheckHighPriority  bool    `mapstructure:"QC_REQUIRED_HIGH_PRIORITY"`
	QualityCheckRandomPercent float64 `mapstructure:"QC_RANDOM_PERCENTAGE"`
}

var ConfigInstance Config

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("AUTO_ASSIGN_ENABLED", true)
	viper.SetDefault("DEFAULT_MAX_TASKS_PER_DAY", 3)
	viper.SetDefault("QC_REQUIRED_HIGH_PRIORITY", true)
	viper.SetDefault("QC_RANDOM_PERCENTAGE", 0.2)

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"SCHEDULER_ENABLED", "AUTO_ASSIGN_ENABLED", "DEFAULT_MAX_TASKS_PER_DAY",
		"QC_REQUIRED_HIGH_PRIORITY", "QC_RANDOM_PERCENTAGE",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	log.Info("Successfully initialized config", "config", config)
	err := validateConfig(config, log)
	if err != nil {
		return Config{}, err
	}
	return ConfigInstance, nil
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

	if config.QualityCheckRandomPercent < 0 || config.QualityCheckRandomPercent > 1 {
		return log.Error(
			"Fatal error: QC_RANDOM_PERCENTAGE must be between 0 and 1",
			"percentage", config.QualityCheckRandomPercent,
		)
	}

	if config.DefaultMaxTasksPerDay <= 0 {
		return log.Error(
			"Fatal error: DEFAULT_MAX_TASKS_PER_DAY must be positive",
			"maxTasksPerDay", config.DefaultMaxTasksPerDay,
		)
	}

	ConfigInstance = config
	return nil
}
