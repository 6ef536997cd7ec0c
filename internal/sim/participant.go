package sim

import (
	"championship-sim/internal/domain"
)

// Participant is one entity's mutable state for the duration of a single
// tournament run. It is owned exclusively by the Tournament that created
// it; external callers only ever see the PlayerResult snapshots.
type Participant struct {
	Player    domain.Player
	Points    int
	Wins      int
	Losses    int
	Ties      int
	Opponents map[int64]struct{}
	Active    bool
	Byes      int
	History   []domain.MatchRecord
}

func newParticipant(player domain.Player) *Participant {
	return &Participant{
		Player:    player,
		Opponents: make(map[int64]struct{}),
		Active:    true,
	}
}

func (p *Participant) HasPlayed(opponentID int64) bool {
	_, ok := p.Opponents[opponentID]
	return ok
}

func (p *Participant) result(placement int) domain.PlayerResult {
	history := make([]domain.MatchRecord, len(p.History))
	copy(history, p.History)
	return domain.PlayerResult{
		PlayerID:    p.Player.ID,
		Name:        p.Player.Name,
		CP:          p.Player.CP,
		Placement:   placement,
		MatchPoints: p.Points,
		Wins:        p.Wins,
		Losses:      p.Losses,
		Ties:        p.Ties,
		MadeDayTwo:  p.Active,
		History:     history,
	}
}
