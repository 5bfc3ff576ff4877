package config

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Log struct {
		Level string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret   string
		TTLHours int
	}
	Match struct {
		PlayerTTL int // seconds
	}
	Game struct {
		MaxRounds int           // 0 = play until everyone leaves
		CodeTTL   time.Duration // lifetime of an unreleased game code
	}
}

var C Config

// Load reads config/config.yaml into C and exits on failure.
func Load() {
	c, err := LoadFrom("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	C = c
}

// LoadFrom reads a config file, falling back to defaults for missing keys.
// A missing file is not an error. CALLBREAK_* environment variables override
// the file, e.g. CALLBREAK_REDIS_ADDR.
func LoadFrom(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("callbreak")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// SetConfigFile skips viper's search, so a missing file may surface as a plain fs error
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	if c.JWT.Secret == "" {
		return Config{}, errors.New("jwt.secret must be set")
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttlHours", 24)
	v.SetDefault("match.playerTTL", 300)
	v.SetDefault("game.maxRounds", 5)
	v.SetDefault("game.codeTTL", "24h")
}
