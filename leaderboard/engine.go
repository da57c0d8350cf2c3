package leaderboard

import (
	"sort"
	"strings"
)

// ScoreEntry is one player's line on a board
type ScoreEntry struct {
	Name  string
	Score int64
}

// Ranking is a player's position on one board
type Ranking struct {
	Position int
	Title    string
	Stat     string
}

// Key normalizes a player name for ranking lookups
func Key(name string) string {
	return strings.ToLower(name)
}

// Engine maintains the sorted board of one definition.
// Only one goroutine may mutate an Engine; published engines are read-only.
type Engine struct {
	def   Definition
	board []ScoreEntry
}

// NewEngine creates an empty board for def
func NewEngine(def Definition) *Engine {
	return &Engine{def: def}
}

// Definition returns the board's definition
func (e *Engine) Definition() Definition {
	return e.def
}

// Reset clears the board
func (e *Engine) Reset() {
	e.board = nil
}

// Len returns the number of entries on the board
func (e *Engine) Len() int {
	return len(e.board)
}

// Board returns a copy of the sorted entries
func (e *Engine) Board() []ScoreEntry {
	out := make([]ScoreEntry, len(e.board))
	copy(out, e.board)
	return out
}

// EnterPlayer scores the player and inserts them in sorted position
func (e *Engine) EnterPlayer(p Player) {
	var score int64
	if e.def.Scorer != nil {
		score = e.def.Scorer.Score(p)
	}
	e.EnterScore(p.Name(), score)
}

// EnterScore inserts a precomputed score in sorted position
func (e *Engine) EnterScore(name string, score int64) {
	entry := ScoreEntry{Name: name, Score: score}
	i := sort.Search(len(e.board), func(i int) bool {
		return e.precedes(entry, e.board[i])
	})
	e.board = append(e.board, ScoreEntry{})
	copy(e.board[i+1:], e.board[i:])
	e.board[i] = entry
}

// precedes orders by score in the board's direction, then by name so that the
// final order does not depend on insertion order
func (e *Engine) precedes(a, b ScoreEntry) bool {
	if a.Score != b.Score {
		if e.def.Direction == Ascending {
			return a.Score < b.Score
		}
		return a.Score > b.Score
	}
	ka, kb := Key(a.Name), Key(b.Name)
	if ka != kb {
		return ka < kb
	}
	return a.Name < b.Name
}

// GenerateRankings assigns standard competition ranking positions: tied scores share
// the position of the first entry of their group and the next score takes its index + 1
func (e *Engine) GenerateRankings() map[string]Ranking {
	rankings := make(map[string]Ranking, len(e.board))
	e.walk(func(position int, entry ScoreEntry) {
		key := Key(entry.Name)
		if _, exists := rankings[key]; exists {
			return
		}
		rankings[key] = Ranking{Position: position, Title: e.def.Title, Stat: e.def.Stat}
	})
	return rankings
}

func (e *Engine) walk(visit func(position int, entry ScoreEntry)) {
	position := 0
	for i, entry := range e.board {
		if i == 0 || entry.Score != e.board[i-1].Score {
			position = i + 1
		}
		visit(position, entry)
	}
}
