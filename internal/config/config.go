package config

import (
	"fmt"
	"os"

	"championship-sim/internal/constants"
	"championship-sim/internal/ledger"
	"championship-sim/internal/sim"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v2"
)

type Config struct {
	DBPath       string
	LogLevel     string
	ScenarioPath string
	Scenario     Scenario
}

// Scenario is the immutable simulation parameter set for a process:
// built from defaults, optionally overridden by a YAML scenario file.
// Changing parameters means loading a new Scenario value, never mutating
// a shared one.
type Scenario struct {
	DayOneRounds       int           `yaml:"day1Rounds"`
	DayTwoRounds       int           `yaml:"day2Rounds"`
	CutoffPoints       int           `yaml:"cutoffPoints"`
	TieRate            float64       `yaml:"tieRate"`
	MinFieldSize       int           `yaml:"minFieldSize"`
	MaxFieldSize       int           `yaml:"maxFieldSize"`
	PreferCrossBracket bool          `yaml:"preferCrossBracket"`
	PointsBands        []ledger.Band `yaml:"pointsTable"`
}

func defaultScenario() Scenario {
	return Scenario{
		DayOneRounds: constants.DayOneRounds,
		DayTwoRounds: constants.DayTwoRounds,
		CutoffPoints: constants.CutoffPoints,
		TieRate:      constants.TieRate,
		MinFieldSize: constants.MinFieldSize,
		MaxFieldSize: constants.MaxFieldSize,
		PointsBands:  ledger.DefaultBands(),
	}
}

// TournamentConfig converts the scenario into the engine's config value.
func (s Scenario) TournamentConfig() sim.Config {
	return sim.Config{
		DayOneRounds: s.DayOneRounds,
		DayTwoRounds: s.DayTwoRounds,
		CutoffPoints: s.CutoffPoints,
		TieRate:      s.TieRate,
		Policy:       sim.PairingPolicy{PreferCrossBracket: s.PreferCrossBracket},
	}
}

// PointsTable builds the validated placement-to-points table.
func (s Scenario) PointsTable() (ledger.PointsTable, error) {
	return ledger.NewPointsTable(s.PointsBands)
}

func (s Scenario) validate() error {
	if s.DayOneRounds < 1 || s.DayTwoRounds < 0 {
		return fmt.Errorf("invalid round counts: day1=%d day2=%d", s.DayOneRounds, s.DayTwoRounds)
	}
	if s.TieRate < 0 || s.TieRate >= 1 {
		return fmt.Errorf("tie rate %v must be in [0, 1)", s.TieRate)
	}
	if s.MinFieldSize < 2 || s.MaxFieldSize < s.MinFieldSize {
		return fmt.Errorf("invalid field size range %d-%d", s.MinFieldSize, s.MaxFieldSize)
	}
	if _, err := s.PointsTable(); err != nil {
		return fmt.Errorf("invalid points table: %w", err)
	}
	return nil
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "championship.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ScenarioPath: getEnv("SCENARIO_PATH", ""),
		Scenario:     defaultScenario(),
	}

	if cfg.ScenarioPath != "" {
		data, err := os.ReadFile(cfg.ScenarioPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read scenario file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg.Scenario); err != nil {
			return nil, fmt.Errorf("failed to parse scenario file: %w", err)
		}
	}

	if err := cfg.Scenario.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Str("scenario_path", cfg.ScenarioPath).
		Int("day1_rounds", cfg.Scenario.DayOneRounds).
		Int("day2_rounds", cfg.Scenario.DayTwoRounds).
		Int("cutoff_points", cfg.Scenario.CutoffPoints).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
