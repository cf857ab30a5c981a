package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`

	Redis Redis `yaml:"redis"`

	// When non-empty, restricts login to these usernames (the legacy
	// two-player whitelist behavior).
	AllowedUsernames []string `yaml:"allowed-usernames" env:"ALLOWED_USERNAMES"`

	CountdownInterval time.Duration `yaml:"countdown-interval" env:"COUNTDOWN_INTERVAL" env-default:"1s"`
	SnapshotInterval  time.Duration `yaml:"snapshot-interval" env:"SNAPSHOT_INTERVAL" env-default:"30s"`

	// bcrypt hash of the bearer token accepted by /admin/state.
	AdminTokenHash string `yaml:"admin-token-hash" env:"ADMIN_TOKEN_HASH"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations from the given yaml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
