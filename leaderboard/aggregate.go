package leaderboard

import (
	"strconv"

	"heinzbottle/hypixel"
)

// AverageTitle is the title of the average leaderboard position board
const AverageTitle = "Average Leaderboard Position"

// AveragePositionDefinition describes the board ranking players by their mean position
func AveragePositionDefinition() Definition {
	return Definition{
		Title:     AverageTitle,
		Color:     ColorRed,
		Direction: Ascending,
		Aggregate: true,
		Format:    FormatAverage,
	}
}

// FormatAverage renders a hundredths score as a position average, e.g. 1234 -> "12.34"
func FormatAverage(score int64) string {
	average := hypixel.RoundDecimals(float64(score)/100, 2)
	return hypixel.PadDecimalPlaces(strconv.FormatFloat(average, 'f', -1, 64))
}

// ComputeAveragePositions fills engine with each player's mean position times 100.
// Every base board's rankings must already be merged into rollup.
func ComputeAveragePositions(engine *Engine, rollup *Rollup) {
	engine.Reset()
	for _, player := range rollup.Players() {
		average, ok := player.AveragePosition()
		if !ok {
			continue
		}
		engine.EnterScore(player.Name, average)
	}
}
