package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// recognizedKeys are the top-level sections we understand. Anything else in
// the file is reported and discarded rather than rejected, so an old server
// can read a newer config.
var recognizedKeys = map[string]bool{
	"server":     true,
	"game":       true,
	"worlds":     true,
	"artifacts":  true,
	"characters": true,
	"logging":    true,
}

// Load reads configuration with precedence: environment variables over the
// config file over built-in defaults. An empty path searches the working
// directory and ./configs for config.yaml; a missing file is not an error.
// Malformed types and failed validation are.
func Load(path string, log zerolog.Logger) (*Config, error) {
	// Optional .env for local development; silently absent in production.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("STARWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		for _, key := range v.AllKeys() {
			top := strings.SplitN(key, ".", 2)[0]
			if !recognizedKeys[top] {
				log.Warn().Str("key", key).Msg("ignoring unknown configuration key")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
