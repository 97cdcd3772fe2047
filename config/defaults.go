package config

import "github.com/spf13/viper"

// setDefaults registers the default value for every recognized key.
// Values mirror the classic rule book: 255 worlds, 255 fleet keys,
// one hour turns, 8000 points to win.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "data")

	v.SetDefault("game.map_size", 255)
	v.SetDefault("game.default_turn_duration", 3600)
	v.SetDefault("game.min_turn_duration", 300)
	v.SetDefault("game.max_turn_duration", 86400)
	v.SetDefault("game.default_target_score", 8000)
	v.SetDefault("game.num_fleets", 255)
	v.SetDefault("game.growth_rate", 0.1)
	v.SetDefault("game.metal_per_mine", 1)
	v.SetDefault("game.black_hole_fraction", 0.03)

	v.SetDefault("game.homeworld.population", 50)
	v.SetDefault("game.homeworld.industry", 30)
	v.SetDefault("game.homeworld.mines", 10)
	v.SetDefault("game.homeworld.metal", 30)
	v.SetDefault("game.homeworld.limit", 100)
	v.SetDefault("game.homeworld.ships_per_fleet", 10)
	v.SetDefault("game.homeworld.num_fleets", 5)

	v.SetDefault("worlds.industry_range.min", 0)
	v.SetDefault("worlds.industry_range.max", 10)
	v.SetDefault("worlds.mines_range.min", 0)
	v.SetDefault("worlds.mines_range.max", 5)
	v.SetDefault("worlds.population_range.min", 0)
	v.SetDefault("worlds.population_range.max", 30)
	v.SetDefault("worlds.limit_range.min", 20)
	v.SetDefault("worlds.limit_range.max", 80)
	v.SetDefault("worlds.min_connections", 2)
	v.SetDefault("worlds.max_connections", 4)

	v.SetDefault("artifacts.types", []string{"Ancient", "Silver", "Golden", "Crystal"})
	v.SetDefault("artifacts.items", []string{"Scepter", "Orb", "Crown", "Tablet"})
	v.SetDefault("artifacts.base_points", 10)
	v.SetDefault("artifacts.special_artifacts", []map[string]any{})

	v.SetDefault("characters.EmpireBuilder.industry_bonus", 1)
	v.SetDefault("characters.EmpireBuilder.cargo_capacity_multiplier", 1.0)
	v.SetDefault("characters.EmpireBuilder.capture_ratio", 0.0)
	v.SetDefault("characters.Merchant.industry_bonus", 0)
	v.SetDefault("characters.Merchant.cargo_capacity_multiplier", 2.0)
	v.SetDefault("characters.Merchant.capture_ratio", 0.0)
	v.SetDefault("characters.Pirate.industry_bonus", 0)
	v.SetDefault("characters.Pirate.cargo_capacity_multiplier", 1.0)
	v.SetDefault("characters.Pirate.capture_ratio", 3.0)
	v.SetDefault("characters.ArtifactCollector.industry_bonus", 0)
	v.SetDefault("characters.ArtifactCollector.cargo_capacity_multiplier", 1.0)
	v.SetDefault("characters.ArtifactCollector.capture_ratio", 0.0)
	v.SetDefault("characters.Berserker.industry_bonus", 0)
	v.SetDefault("characters.Berserker.cargo_capacity_multiplier", 1.0)
	v.SetDefault("characters.Berserker.capture_ratio", 0.0)
	v.SetDefault("characters.Apostle.industry_bonus", 0)
	v.SetDefault("characters.Apostle.cargo_capacity_multiplier", 1.0)
	v.SetDefault("characters.Apostle.capture_ratio", 0.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Default returns the fully defaulted configuration with no file or
// environment input. Used by tests and by starwebctl when no config exists.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}
