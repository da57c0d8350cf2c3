package leaderboard

import "sort"

// PlayerRollup collects one player's rankings across every board
type PlayerRollup struct {
	Name     string
	Rankings []Ranking
}

// BestPosition returns the lowest position among rankings accepted by include.
// A nil include accepts every ranking.
func (p *PlayerRollup) BestPosition(include func(Ranking) bool) (int, bool) {
	best, found := 0, false
	for _, ranking := range p.Rankings {
		if include != nil && !include(ranking) {
			continue
		}
		if !found || ranking.Position < best {
			best, found = ranking.Position, true
		}
	}
	return best, found
}

// AveragePosition returns the mean of the player's positions times 100, truncated
func (p *PlayerRollup) AveragePosition() (int64, bool) {
	if len(p.Rankings) == 0 {
		return 0, false
	}
	var total int64
	for _, ranking := range p.Rankings {
		total += int64(ranking.Position)
	}
	return total * 100 / int64(len(p.Rankings)), true
}

// Rollup maps player keys to their rankings across boards
type Rollup struct {
	players map[string]*PlayerRollup
}

// NewRollup creates an empty rollup
func NewRollup() *Rollup {
	return &Rollup{players: make(map[string]*PlayerRollup)}
}

// Add registers a player by display name, returning the existing entry when present
func (r *Rollup) Add(name string) *PlayerRollup {
	key := Key(name)
	if player, ok := r.players[key]; ok {
		return player
	}
	player := &PlayerRollup{Name: name}
	r.players[key] = player
	return player
}

// Get looks a player up by name or key
func (r *Rollup) Get(name string) (*PlayerRollup, bool) {
	player, ok := r.players[Key(name)]
	return player, ok
}

// Len returns the number of players in the rollup
func (r *Rollup) Len() int {
	return len(r.players)
}

// Record adds a ranking to a known player, keeping rankings sorted by position with ties in
// insertion order. It reports false for unknown players.
func (r *Rollup) Record(name string, ranking Ranking) bool {
	player, ok := r.Get(name)
	if !ok {
		return false
	}
	i := sort.Search(len(player.Rankings), func(i int) bool {
		return player.Rankings[i].Position > ranking.Position
	})
	player.Rankings = append(player.Rankings, Ranking{})
	copy(player.Rankings[i+1:], player.Rankings[i:])
	player.Rankings[i] = ranking
	return true
}

// Merge records every ranking whose player is known and returns how many were recorded
func (r *Rollup) Merge(rankings map[string]Ranking) int {
	recorded := 0
	for key, ranking := range rankings {
		if r.Record(key, ranking) {
			recorded++
		}
	}
	return recorded
}

// Players returns every player sorted by key
func (r *Rollup) Players() []*PlayerRollup {
	keys := make([]string, 0, len(r.players))
	for key := range r.players {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	players := make([]*PlayerRollup, 0, len(keys))
	for _, key := range keys {
		players = append(players, r.players[key])
	}
	return players
}
