package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// EngineConfig bounds the combinatorial surface of simulation runs.
type EngineConfig struct {
	// MaxCombinations is the ceiling above which a simulation must be
	// explicitly sampled or forced.
	MaxCombinations int `mapstructure:"max_combinations"`
	// SampleSize is the number of cases drawn when sampling an oversized run.
	SampleSize int `mapstructure:"sample_size"`
	// CaseBatchSize is the persistence batch size for simulation cases.
	CaseBatchSize int `mapstructure:"case_batch_size"`
}

type RetentionConfig struct {
	QuoteLogDays      int `mapstructure:"quote_log_days"`
	SimulationRunDays int `mapstructure:"simulation_run_days"`
}

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Retention RetentionConfig `mapstructure:"retention"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PRESSCONFIG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.dsn", "postgres://localhost:5432/pressconfig?sslmode=disable")
	v.SetDefault("log.level", "info")
	v.SetDefault("engine.max_combinations", 10000)
	v.SetDefault("engine.sample_size", 10000)
	v.SetDefault("engine.case_batch_size", 500)
	v.SetDefault("retention.quote_log_days", 30)
	v.SetDefault("retention.simulation_run_days", 90)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
