package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"storefront/internal/log"
)

type Application struct {
	Env     string        `mapstructure:"env"      json:"env"`
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	LogPath string        `mapstructure:"log_path" json:"log_path"`
	Timeout time.Duration `mapstructure:"timeout"  json:"timeout"`
}

type Session struct {
	Path string `mapstructure:"path" json:"path"`
}

type Otel struct {
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Session     `mapstructure:"session"     json:"session"`
	Otel        `mapstructure:"otel"        json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.AutomaticEnv()
		viper.SetDefault("application.env", "development")
		viper.SetDefault("application.base_url", "http://localhost:8080")
		viper.SetDefault("application.log_path", "./log/storefront.log")
		viper.SetDefault("application.timeout", 30*time.Second)
		viper.SetDefault("session.path", "./storefront-session.json")

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			logger.Info().Err(err).Msg("config file not found, using defaults and env")
		}

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
