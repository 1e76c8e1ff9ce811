package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/puluc-backend/internal/entity"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Puluc      Puluc  `yaml:"puluc"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	MatchTTL time.Duration `yaml:"match-ttl" env:"REDIS_MATCH_TTL" env-default:"24h"`
}

type Puluc struct {
	BoardLength   int    `yaml:"board-length" env:"PULUC_BOARD_LENGTH" env-default:"9"`
	PiecesPerSide int    `yaml:"pieces-per-side" env:"PULUC_PIECES_PER_SIDE" env-default:"5"`
	RollMin       int    `yaml:"roll-min" env:"PULUC_ROLL_MIN" env-default:"1"`
	RollMax       int    `yaml:"roll-max" env:"PULUC_ROLL_MAX" env-default:"5"`
	Seed          uint64 `yaml:"seed" env:"PULUC_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Puluc.Rules().Validate(); err != nil {
		panic(fmt.Errorf("invalid puluc config: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Puluc) Rules() entity.Rules {
	return entity.Rules{
		BoardLength:   that.BoardLength,
		PiecesPerSide: that.PiecesPerSide,
		RollMin:       that.RollMin,
		RollMax:       that.RollMax,
	}
}
