package constants

import "time"

// Tournament structure defaults. A scenario file may override these per run.
const (
	DayOneRounds = 9
	DayTwoRounds = 4
	CutoffPoints = 19
	WinPoints    = 3
	TiePoints    = 1
	TieRate      = 0.15
	MinFieldSize = 3700
	MaxFieldSize = 4000
)

// Skill model thresholds.
const (
	LowCPMax         = 331
	HighCPMin        = 500
	BrutalMultiplier = 0.25
	WinProbFloor     = 0.001
	WinProbCeil      = 0.999
)

// Championship points ledger.
const (
	MaxFinishes        = 5
	MaxScoredPlacement = 1024
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	DatabaseTimeout = 5 * time.Second
)

const (
	DefaultBatchParallelism = 4
	SearchSuggestionLimit   = 10
)
