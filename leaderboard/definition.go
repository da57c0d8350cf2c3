package leaderboard

import (
	"heinzbottle/hypixel"
	"heinzbottle/requirements"
	"heinzbottle/statdoc"
)

// Direction is the sort order of a board
type Direction int

const (
	// Descending puts the highest score first
	Descending Direction = iota
	// Ascending puts the lowest score first
	Ascending
)

// Player is one roster member's input to a refresh cycle
type Player struct {
	Doc    *statdoc.Document
	Member hypixel.Member
}

// Name returns the display name used on boards
func (p Player) Name() string {
	return hypixel.DisplayName(p.Doc)
}

// Scorer computes a player's score for a board. Scorers never fail: absent or
// non-numeric stats count as zero.
type Scorer interface {
	Score(p Player) int64
}

// ScorerFunc adapts a function to the Scorer interface
type ScorerFunc func(p Player) int64

func (f ScorerFunc) Score(p Player) int64 {
	return f(p)
}

// Formatter renders a score for display
type Formatter func(score int64) string

// Definition describes one leaderboard
type Definition struct {
	Title     string
	Stat      string
	Color     int
	Direction Direction

	// Resets marks boards whose underlying value can restart, which keeps them out of
	// best-position role checks
	Resets bool

	// Aggregate boards are computed from other boards' rankings instead of player stats
	Aggregate bool

	Scorer Scorer
	Format Formatter
}

// Name is the label used for the board's thread, e.g. "SkyWars (Level)"
func (d Definition) Name() string {
	if d.Stat == "" {
		return d.Title
	}
	return d.Title + " (" + d.Stat + ")"
}

// Matches reports whether a published header with this title and stat belongs to the definition
func (d Definition) Matches(title, stat string) bool {
	return d.Title == title && d.Stat == stat
}

// FormatScore renders a score with the definition's formatter, defaulting to comma grouping
func (d Definition) FormatScore(score int64) string {
	if d.Format == nil {
		return hypixel.WithCommas(score)
	}
	return d.Format(score)
}

// Path scores the number found at a single stat path
func Path(path string) Scorer {
	return ScorerFunc(func(p Player) int64 {
		value, _ := p.Doc.Int(path)
		return value
	})
}

// Sum scores the total of several stat paths
func Sum(paths ...string) Scorer {
	return ScorerFunc(func(p Player) int64 {
		return hypixel.SumInts(p.Doc, paths...)
	})
}

// CombinedScorer collapses several sub-metrics into one logical metric
type CombinedScorer struct {
	Name  string
	Paths []string
}

func (c CombinedScorer) Score(p Player) int64 {
	return hypixel.SumInts(p.Doc, c.Paths...)
}

// Combined scores the total of the sub-metrics at paths under one metric name
func Combined(name string, paths ...string) Scorer {
	return CombinedScorer{Name: name, Paths: paths}
}

// QuestParticipation scores the guild quest challenges the member completed
func QuestParticipation() Scorer {
	return ScorerFunc(func(p Player) int64 {
		return p.Member.QuestParticipation
	})
}

// RequirementsMet scores how many guild requirements the player satisfies
func RequirementsMet(rules *requirements.RuleSet) Scorer {
	return ScorerFunc(func(p Player) int64 {
		return int64(rules.Count(p.Doc))
	})
}

// LevelFormat renders raw experience as a level through the given conversion
func LevelFormat(level func(xp int64) float64) Formatter {
	return func(score int64) string {
		return hypixel.FormatLevel(level(score))
	}
}

// NetworkLevelFormat renders network experience as a network level
func NetworkLevelFormat(score int64) string {
	return hypixel.FormatLevel(hypixel.NetworkLevel(float64(score)))
}
