package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks structural tags plus the cross-field rules that tags
// cannot express. A failure here means the server refuses to start.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if cfg.Game.MinTurnDuration > cfg.Game.MaxTurnDuration {
		return fmt.Errorf("config: game.min_turn_duration (%d) exceeds game.max_turn_duration (%d)",
			cfg.Game.MinTurnDuration, cfg.Game.MaxTurnDuration)
	}
	if cfg.Worlds.MaxConnections >= cfg.Game.MapSize {
		return fmt.Errorf("config: worlds.max_connections (%d) must be below game.map_size (%d)",
			cfg.Worlds.MaxConnections, cfg.Game.MapSize)
	}
	for name, cc := range cfg.Characters {
		if err := v.Struct(cc); err != nil {
			return fmt.Errorf("config: characters.%s: %w", name, formatValidationError(err))
		}
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("field %q failed %q (value %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
}
