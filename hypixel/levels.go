package hypixel

import "math"

// NetworkLevel converts network experience into the fractional network level
func NetworkLevel(xp float64) float64 {
	return math.Sqrt(2.0*xp+30625.0)/50.0 - 2.5
}

// NetworkExperience is the inverse of NetworkLevel
func NetworkExperience(level float64) float64 {
	return (math.Pow(50.0*(level+2.5), 2.0) - 30625.0) / 2.0
}

var skyWarsXPTable = []int64{0, 20, 70, 150, 250, 500, 1000, 2000, 3500, 6000, 10000, 15000}

// SkyWarsLevel converts SkyWars experience into a level.
// The first twelve levels follow a fixed table; each level after that costs 10,000 experience.
func SkyWarsLevel(xp int64) float64 {
	return tableLevel(xp, skyWarsXPTable, 10000)
}

var woolWarsXPTable = []int64{0, 1000, 3000, 6000, 10000, 15000}

// WoolWarsLevel converts Wool Wars experience into a level.
// The first six levels follow a fixed table; each level after that costs 5,000 experience.
func WoolWarsLevel(xp int64) float64 {
	return tableLevel(xp, woolWarsXPTable, 5000)
}

func tableLevel(xp int64, table []int64, xpPerLevel int64) float64 {
	if xp < 0 {
		xp = 0
	}
	last := table[len(table)-1]
	if xp >= last {
		return float64(xp-last)/float64(xpPerLevel) + float64(len(table))
	}
	for i := 1; i < len(table); i++ {
		if xp < table[i] {
			return float64(i) + float64(xp-table[i-1])/float64(table[i]-table[i-1])
		}
	}
	return 0
}

const (
	bedWarsXPPerLevel      = 5000
	bedWarsEasyLevelsTotal = 7000
	bedWarsLevelsPerPres   = 100
	bedWarsXPPerPrestige   = 96*bedWarsXPPerLevel + bedWarsEasyLevelsTotal
)

// The first four levels of every prestige are cheaper than the rest.
var bedWarsEasyLevelsXP = []int64{500, 1000, 2000, 3500}

// BedWarsLevel converts Bed Wars experience into a level.
// Every prestige is 100 levels and restarts the cheap early levels.
func BedWarsLevel(xp int64) float64 {
	if xp < 0 {
		xp = 0
	}
	prestiges := xp / bedWarsXPPerPrestige
	level := prestiges * bedWarsLevelsPerPres
	remaining := xp - prestiges*bedWarsXPPerPrestige

	for _, cost := range bedWarsEasyLevelsXP {
		if remaining < cost {
			break
		}
		level++
		remaining -= cost
	}

	return float64(level) + float64(remaining)/bedWarsXPPerLevel
}
