package domain

import (
	"time"
)

type RatingZone string

const (
	ZoneNA    RatingZone = "NA"
	ZoneEU    RatingZone = "EU"
	ZoneLATAM RatingZone = "LATAM"
	ZoneOCE   RatingZone = "OCE"
	ZoneMESA  RatingZone = "MESA"
)

// ByeOpponent is the sentinel opponent ID recorded when a participant
// receives a bye instead of a real pairing.
const ByeOpponent int64 = -1

type Player struct {
	ID                int64
	Name              string
	GlobalRank        int
	Zone              RatingZone
	CP                int
	CareerTournaments int
	CareerMatchPoints int
	CareerWins        int
	CareerLosses      int
	CareerTies        int
	CareerTopCuts     int
	CareerTitles      int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeTie  Outcome = "tie"
)

// MatchRecord is one round's result from a single participant's
// perspective. Records are append-only and never mutated after creation.
type MatchRecord struct {
	Round        int
	OpponentID   int64 // ByeOpponent for a bye
	OpponentName string
	OpponentCP   int
	Result       Outcome
	Brutal       bool
}

func (m MatchRecord) IsBye() bool {
	return m.OpponentID == ByeOpponent
}

// Pairing is an unordered pair of participant IDs. B == ByeOpponent means
// A receives a bye this round.
type Pairing struct {
	A int64
	B int64
}

func (p Pairing) IsBye() bool {
	return p.B == ByeOpponent
}

// StandingEntry is one row of the regional championship-points ledger.
// Finishes holds at most the best K point values, sorted descending;
// TotalCP is always TopFiveCP + LocalsCP.
type StandingEntry struct {
	Name      string
	AltName   string
	Finishes  []int
	TopFiveCP int
	LocalsCP  int
	TotalCP   int
}

// PlayerResult is one participant's final line in a finished tournament.
type PlayerResult struct {
	PlayerID    int64
	Name        string
	CP          int
	Placement   int
	MatchPoints int
	Wins        int
	Losses      int
	Ties        int
	MadeDayTwo  bool
	History     []MatchRecord
}

// TournamentResult is the full record handed to the results sink after a
// run finishes. Standings are ordered by final placement.
type TournamentResult struct {
	TournamentID string
	Seed         int64
	FieldSize    int
	DayTwoSize   int
	Standings    []PlayerResult
	FinishedAt   time.Time
}
