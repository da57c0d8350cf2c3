package leaderboard

import (
	"testing"

	"heinzbottle/requirements"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAveragePositions(t *testing.T) {
	rollup := NewRollup()
	rollup.Add("even")
	rollup.Add("half")
	rollup.Add("third")
	rollup.Add("unranked")
	for _, p := range []int{1, 3} {
		rollup.Record("even", Ranking{Position: p})
	}
	for _, p := range []int{1, 2} {
		rollup.Record("half", Ranking{Position: p})
	}
	for _, p := range []int{1, 1, 2} {
		rollup.Record("third", Ranking{Position: p})
	}

	engine := NewEngine(AveragePositionDefinition())
	ComputeAveragePositions(engine, rollup)

	assert.Equal(t, []ScoreEntry{
		{Name: "third", Score: 133},
		{Name: "half", Score: 150},
		{Name: "even", Score: 200},
	}, engine.Board())
	assert.Equal(t, []string{"`#001:` third (1.33)\n`#002:` half (1.50)\n`#003:` even (2.00)"}, engine.GenerateDisplayPages(DefaultPageSize))
}

func TestComputeAveragePositions_ExactHundredths(t *testing.T) {
	rollup := NewRollup()
	rollup.Add("a")
	rollup.Add("b")
	for _, p := range []int{1, 1, 1, 2, 3, 3, 3, 3, 3, 3} {
		rollup.Record("a", Ranking{Position: p})
	}
	for _, p := range []int{1, 1, 1, 2, 3, 3, 3, 3, 3, 4} {
		rollup.Record("b", Ranking{Position: p})
	}

	engine := NewEngine(AveragePositionDefinition())
	ComputeAveragePositions(engine, rollup)

	assert.Equal(t, []ScoreEntry{
		{Name: "a", Score: 230},
		{Name: "b", Score: 240},
	}, engine.Board())
	assert.Equal(t, []string{"`#001:` a (2.30)\n`#002:` b (2.40)"}, engine.GenerateDisplayPages(DefaultPageSize))
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "12.34", FormatAverage(1234))
	assert.Equal(t, "1.00", FormatAverage(100))
	assert.Equal(t, "0.50", FormatAverage(50))
}

func TestDefaultDefinitions(t *testing.T) {
	defs := DefaultDefinitions(requirements.Default())

	names := make(map[string]bool)
	var resetting, aggregate []string
	for _, def := range defs {
		assert.False(t, names[def.Name()], "duplicate board %s", def.Name())
		names[def.Name()] = true
		if def.Resets {
			resetting = append(resetting, def.Title)
		}
		if def.Aggregate {
			aggregate = append(aggregate, def.Title)
		} else {
			assert.NotNil(t, def.Scorer, def.Name())
		}
	}

	assert.Equal(t, []string{GuildQuestTitle}, resetting)
	assert.Equal(t, []string{AverageTitle}, aggregate)
	assert.True(t, names["SkyWars (Level)"])
	assert.True(t, names["SkyWars (Lucky Block Wins)"])
}

func TestDefaultDefinitions_LevelBoards(t *testing.T) {
	defs := DefaultDefinitions(requirements.Default())
	byName := make(map[string]Definition)
	for _, def := range defs {
		byName[def.Name()] = def
	}

	bedWars, ok := byName["Bed Wars (Level)"]
	require.True(t, ok)
	player := testPlayer("p", map[string]any{"stats": map[string]any{"Bedwars": map[string]any{"Experience": 750.7}}})
	score := bedWars.Scorer.Score(player)
	assert.Equal(t, int64(750), score)
	assert.Equal(t, "1.25", bedWars.FormatScore(score))

	karma := byName["Karma"]
	assert.Equal(t, "1,000", karma.FormatScore(1000))
}
