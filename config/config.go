package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	App struct {
		Name string `mapstructure:"NAME"`
		Port string `mapstructure:"PORT"`
	}

	DATABASE struct {
		Postgres struct {
			DSN string `mapstructure:"URL"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
		}
		Mongo struct {
			Url string `mapstructure:"URL"`
		}
	}

	CHAT struct {
		IdleThreshold  time.Duration `mapstructure:"IDLE_THRESHOLD"`
		SweepInterval  time.Duration `mapstructure:"SWEEP_INTERVAL"`
		SendBuffer     int           `mapstructure:"SEND_BUFFER"`
		MaxConnections int           `mapstructure:"MAX_CONNECTIONS"`
	}
}

var Conf *AppConfig

func LoadConfig() error {
	viper.SetConfigName("application")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CHATAPP")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	applyChatDefaults(&config)

	Conf = &config
	log.Info().Msg("configuration loaded...")
	return nil
}

func applyChatDefaults(c *AppConfig) {
	if c.CHAT.IdleThreshold <= 0 {
		c.CHAT.IdleThreshold = 30 * time.Minute
	}
	if c.CHAT.SweepInterval <= 0 {
		c.CHAT.SweepInterval = time.Minute
	}
	if c.CHAT.SendBuffer <= 0 {
		c.CHAT.SendBuffer = 256
	}
}
