package service

import (
	"sort"
	"time"

	"heinzbottle/leaderboard"
)

// Snapshot is an immutable, complete set of boards and the rankings derived from them.
// A recovered snapshot has rankings but empty boards.
type Snapshot struct {
	Boards      []*leaderboard.Engine
	Rollup      *leaderboard.Rollup
	GeneratedAt time.Time
	Recovered   bool
}

// Board returns the board with the given title and stat
func (s *Snapshot) Board(title, stat string) (*leaderboard.Engine, bool) {
	if s == nil {
		return nil, false
	}
	for _, board := range s.Boards {
		if board.Definition().Matches(title, stat) {
			return board, true
		}
	}
	return nil, false
}

// Rankings returns a player's rankings ordered by position
func (s *Snapshot) Rankings(name string) []leaderboard.Ranking {
	if s == nil {
		return nil
	}
	player, ok := s.Rollup.Get(name)
	if !ok {
		return nil
	}
	return append([]leaderboard.Ranking(nil), player.Rankings...)
}

// BestPosition returns a player's best position across boards that never reset
func (s *Snapshot) BestPosition(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	player, ok := s.Rollup.Get(name)
	if !ok {
		return 0, false
	}
	return player.BestPosition(func(r leaderboard.Ranking) bool {
		return !s.resets(r)
	})
}

func (s *Snapshot) resets(r leaderboard.Ranking) bool {
	for _, board := range s.Boards {
		def := board.Definition()
		if def.Matches(r.Title, r.Stat) {
			return def.Resets
		}
	}
	return false
}

// Players returns the number of ranked players
func (s *Snapshot) Players() int {
	if s == nil {
		return 0
	}
	return s.Rollup.Len()
}

// BoardPosition is one player's position on a board
type BoardPosition struct {
	Name     string
	Position int
}

// Positions lists the players ranked on a board, best first, read from the rankings.
// Unlike Board it also serves recovered snapshots, whose boards hold no scores.
func (s *Snapshot) Positions(title, stat string) []BoardPosition {
	if s == nil {
		return nil
	}
	var positions []BoardPosition
	for _, player := range s.Rollup.Players() {
		for _, ranking := range player.Rankings {
			if ranking.Title == title && ranking.Stat == stat {
				positions = append(positions, BoardPosition{Name: player.Name, Position: ranking.Position})
				break
			}
		}
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].Position < positions[j].Position
	})
	return positions
}
