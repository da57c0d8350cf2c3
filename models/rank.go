package models

import (
	"fmt"
	"strings"
)

// Rank is a step of the guild's rank ladder. The order of the constants is the ladder order.
type Rank int

const (
	RankNone Rank = iota
	RankMember
	RankScout
	RankLieutenant
	RankVeteran
)

var rankNames = map[Rank]string{
	RankNone:       "None",
	RankMember:     "Member",
	RankScout:      "Scout",
	RankLieutenant: "Lieutenant",
	RankVeteran:    "Veteran",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// Valid reports whether r is one of the ladder ranks
func (r Rank) Valid() bool {
	return r >= RankNone && r <= RankVeteran
}

// ParseRank converts an in-game rank name, case-insensitively.
// Ranks outside the ladder (e.g. "Guild Master") are not parsed.
func ParseRank(name string) (Rank, bool) {
	for rank, rankName := range rankNames {
		if strings.EqualFold(rankName, strings.TrimSpace(name)) {
			return rank, true
		}
	}
	return RankNone, false
}

// TreehardLevel tracks the guild's Treehard recognition
type TreehardLevel int

const (
	TreehardNone TreehardLevel = iota
	Treehard
	TreehardPlus
)

func (l TreehardLevel) String() string {
	switch l {
	case TreehardNone:
		return "None"
	case Treehard:
		return "Treehard"
	case TreehardPlus:
		return "Treehard+"
	default:
		return fmt.Sprintf("TreehardLevel(%d)", int(l))
	}
}

// Standing is the persistent guild record of a linked user
type Standing struct {
	HighestRank   Rank
	Treehard      TreehardLevel
	HonoraryQuest bool
}

// RaiseHighestRank records rank as the highest achieved one.
// Lower or equal ranks are ignored; it reports whether the record changed.
func (s *Standing) RaiseHighestRank(rank Rank) bool {
	if !rank.Valid() || rank <= s.HighestRank {
		return false
	}
	s.HighestRank = rank
	return true
}

// RaiseTreehard records a Treehard level, ignoring downgrades
func (s *Standing) RaiseTreehard(level TreehardLevel) bool {
	if level <= s.Treehard || level > TreehardPlus {
		return false
	}
	s.Treehard = level
	return true
}
