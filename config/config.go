package config

// Config is the root of the validated server configuration. Every knob the
// game engine consumes lives here; unknown keys in the file are warned about
// at load time and dropped.
type Config struct {
	Server     ServerConfig               `mapstructure:"server"`
	Game       GameConfig                 `mapstructure:"game"`
	Worlds     WorldsConfig               `mapstructure:"worlds"`
	Artifacts  ArtifactsConfig            `mapstructure:"artifacts"`
	Characters map[string]CharacterConfig `mapstructure:"characters"`
	Logging    LoggingConfig              `mapstructure:"logging"`
}

// ServerConfig holds transport and filesystem settings.
type ServerConfig struct {
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	DataDir string `mapstructure:"data_dir" validate:"required"`
}

// GameConfig holds global game pacing and scoring settings.
type GameConfig struct {
	MapSize             int     `mapstructure:"map_size" validate:"min=16,max=1024"`
	DefaultTurnDuration int     `mapstructure:"default_turn_duration" validate:"min=1"` // seconds
	MinTurnDuration     int     `mapstructure:"min_turn_duration" validate:"min=1"`
	MaxTurnDuration     int     `mapstructure:"max_turn_duration" validate:"min=1"`
	DefaultTargetScore  int     `mapstructure:"default_target_score" validate:"min=1"`
	NumFleets           int     `mapstructure:"num_fleets" validate:"min=1,max=1024"`
	GrowthRate          float64 `mapstructure:"growth_rate" validate:"gt=0"`
	MetalPerMine        int     `mapstructure:"metal_per_mine" validate:"min=1"`
	BlackHoleFraction   float64 `mapstructure:"black_hole_fraction" validate:"gte=0,lt=0.5"`

	Homeworld HomeworldConfig `mapstructure:"homeworld"`
}

// HomeworldConfig describes the starting world handed to a joining player.
type HomeworldConfig struct {
	Population    int `mapstructure:"population" validate:"min=1"`
	Industry      int `mapstructure:"industry" validate:"min=0"`
	Mines         int `mapstructure:"mines" validate:"min=0"`
	Metal         int `mapstructure:"metal" validate:"min=0"`
	Limit         int `mapstructure:"limit" validate:"min=1"`
	ShipsPerFleet int `mapstructure:"ships_per_fleet" validate:"min=0"`
	NumFleets     int `mapstructure:"num_fleets" validate:"min=0"`
}

// Range is an inclusive [min, max] pair used for random neutral-world rolls.
type Range struct {
	Min int `mapstructure:"min" validate:"min=0"`
	Max int `mapstructure:"max" validate:"gtefield=Min"`
}

// WorldsConfig controls neutral world generation.
type WorldsConfig struct {
	IndustryRange   Range `mapstructure:"industry_range"`
	MinesRange      Range `mapstructure:"mines_range"`
	PopulationRange Range `mapstructure:"population_range"`
	LimitRange      Range `mapstructure:"limit_range"`
	MinConnections  int   `mapstructure:"min_connections" validate:"min=1"`
	MaxConnections  int   `mapstructure:"max_connections" validate:"gtefield=MinConnections"`
}

// SpecialArtifact is a named artifact placed at map generation time.
// The effect tag is carried through snapshots but not consulted by mechanics.
type SpecialArtifact struct {
	Name   string `mapstructure:"name" validate:"required"`
	Points int    `mapstructure:"points" validate:"min=0"`
	Effect string `mapstructure:"effect"`
}

// ArtifactsConfig controls artifact generation. Plain artifacts are produced
// by crossing Types x Items ("Ancient" x "Scepter" -> "Ancient Scepter");
// special artifacts are taken verbatim.
type ArtifactsConfig struct {
	Types            []string          `mapstructure:"types"`
	Items            []string          `mapstructure:"items"`
	BasePoints       int               `mapstructure:"base_points" validate:"min=0"`
	SpecialArtifacts []SpecialArtifact `mapstructure:"special_artifacts" validate:"dive"`
}

// CharacterConfig tunes per-character mechanics. IndustryBonus lowers the
// unit cost of industry and limit builds, CargoCapacityMultiplier scales
// cargo space per ship, CaptureRatio is the local ship ratio that triggers
// automatic fleet capture.
type CharacterConfig struct {
	IndustryBonus           int     `mapstructure:"industry_bonus" validate:"min=0"`
	CargoCapacityMultiplier float64 `mapstructure:"cargo_capacity_multiplier" validate:"gt=0"`
	CaptureRatio            float64 `mapstructure:"capture_ratio" validate:"gte=0"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// Character returns the tuning for the named character type, falling back to
// neutral values when the configuration does not mention it.
func (c *Config) Character(name string) CharacterConfig {
	if cc, ok := c.Characters[name]; ok {
		return cc
	}
	return CharacterConfig{CargoCapacityMultiplier: 1}
}
