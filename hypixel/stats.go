package hypixel

import "heinzbottle/statdoc"

// Common stat paths inside a player document
const (
	PathDisplayName       = "player.displayname"
	PathUUID              = "player.uuid"
	PathNetworkExp        = "player.networkExp"
	PathAchievementPoints = "player.achievementPoints"
	PathBedWarsXP         = "player.stats.Bedwars.Experience"
	PathSkyWarsXP         = "player.stats.SkyWars.skywars_experience"
	PathWoolWarsXP        = "player.stats.WoolGames.progression.experience"
)

// UnknownName is displayed for players whose response lacks a display name
const UnknownName = "?????"

// WoolGamesWinPaths are the per-mode win counters of Wool Games
var WoolGamesWinPaths = []string{
	"player.stats.WoolGames.wool_wars.stats.wins",
	"player.stats.WoolGames.sheep_wars.stats.wins",
	"player.stats.WoolGames.capture_the_wool.stats.participated_wins",
}

// DisplayName returns the player's display name or UnknownName
func DisplayName(doc *statdoc.Document) string {
	if name, ok := doc.String(PathDisplayName); ok && name != "" {
		return name
	}
	return UnknownName
}

// PlayerLevel returns the network level of a player document
func PlayerLevel(doc *statdoc.Document) float64 {
	xp, _ := doc.Number(PathNetworkExp)
	return NetworkLevel(xp)
}

// SumInts adds the numeric values at paths, counting absent ones as zero
func SumInts(doc *statdoc.Document, paths ...string) int64 {
	var total int64
	for _, path := range paths {
		if v, ok := doc.Int(path); ok {
			total += v
		}
	}
	return total
}

// TotalWoolGamesWins sums wins across every Wool Games mode
func TotalWoolGamesWins(doc *statdoc.Document) int64 {
	return SumInts(doc, WoolGamesWinPaths...)
}
