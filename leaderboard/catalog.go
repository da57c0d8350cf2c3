package leaderboard

import (
	"heinzbottle/hypixel"
	"heinzbottle/requirements"
)

// Embed colours used by the published boards
const (
	ColorBlue        = 0x3498DB
	ColorDarkGreen   = 0x1F8B4C
	ColorDarkMagenta = 0xAD1457
	ColorDarkOrange  = 0xA84300
	ColorDarkPurple  = 0x71368A
	ColorDarkRed     = 0x992D22
	ColorGold        = 0xF1C40F
	ColorGreen       = 0x2ECC71
	ColorLightOrange = 0xC27C0E
	ColorMagenta     = 0xE91E63
	ColorOrange      = 0xE67E22
	ColorPurple      = 0x9B59B6
	ColorRed         = 0xE74C3C
	ColorTeal        = 0x1ABC9C
)

// GuildQuestTitle is the title of the guild quest challenge board
const GuildQuestTitle = "Guild Quest Challenges Completed"

// RequirementsTitle is the title of the requirement count board
const RequirementsTitle = "Heinz Requirements Met"

func counter(title, stat string, color int, path string) Definition {
	return Definition{Title: title, Stat: stat, Color: color, Scorer: Path(path)}
}

func leveled(title, stat string, color int, path string, format Formatter) Definition {
	return Definition{Title: title, Stat: stat, Color: color, Scorer: Path(path), Format: format}
}

// DefaultDefinitions returns every published board in display order
func DefaultDefinitions(rules *requirements.RuleSet) []Definition {
	return []Definition{
		counter("Achievement Points", "", ColorDarkPurple, hypixel.PathAchievementPoints),
		counter("Arcade", "Wins", ColorMagenta, "player.achievements.arcade_arcade_winner"),
		counter("Arena Brawl", "Wins", ColorOrange, "player.achievements.arena_gladiator"),
		AveragePositionDefinition(),
		leveled("Bed Wars", "Level", ColorTeal, hypixel.PathBedWarsXP, LevelFormat(hypixel.BedWarsLevel)),
		counter("Blitz Survival Games", "Kills", ColorRed, "player.achievements.blitz_kills"),
		counter("Build Battle", "Score", ColorDarkGreen, "player.achievements.buildbattle_build_battle_score"),
		counter("Cops and Crims", "Kills", ColorGold, "player.achievements.copsandcrims_serial_killer"),
		counter("Duels", "Wins", ColorDarkRed, "player.achievements.duels_duels_winner"),
		{Title: GuildQuestTitle, Color: ColorRed, Resets: true, Scorer: QuestParticipation()},
		{Title: RequirementsTitle, Color: ColorRed, Scorer: RequirementsMet(rules)},
		leveled("Hypixel Level", "", ColorDarkPurple, hypixel.PathNetworkExp, NetworkLevelFormat),
		counter("Karma", "", ColorDarkPurple, "player.karma"),
		counter("Mega Walls", "Wins", ColorGreen, "player.achievements.walls3_wins"),
		counter("Murder Mystery", "Wins", ColorDarkMagenta, "player.stats.MurderMystery.wins"),
		counter("Paintball Warfare", "Kills", ColorTeal, "player.achievements.paintball_kills"),
		counter("The Pit", "Total Experience", ColorGold, "player.stats.Pit.profile.xp"),
		counter("Quakecraft", "Kills", ColorLightOrange, "player.achievements.quake_kills"),
		counter("Quests Completed", "", ColorDarkPurple, "player.achievements.general_quest_master"),
		leveled("SkyWars", "Level", ColorTeal, hypixel.PathSkyWarsXP, LevelFormat(hypixel.SkyWarsLevel)),
		counter("SkyWars", "Lucky Block Wins", ColorTeal, "player.stats.SkyWars.lab_win_lucky_blocks_lab"),
		counter("SkyBlock", "Level", ColorGreen, "player.achievements.skyblock_sb_levels"),
		counter("Smash Heroes", "Level", ColorDarkGreen, "player.stats.SuperSmash.smashLevel"),
		counter("Smash Heroes", "Wins", ColorDarkGreen, "player.achievements.supersmash_smash_winner"),
		counter("Speed UHC", "Score", ColorOrange, "player.stats.SpeedUHC.score"),
		counter("Turbo Kart Racers", "Trophies", ColorBlue, "player.achievements.gingerbread_winner"),
		counter("TNT Games", "Wins", ColorRed, "player.stats.TNTGames.wins"),
		counter("UHC", "Score", ColorDarkOrange, "player.stats.UHC.score"),
		counter("VampireZ", "Human Wins", ColorDarkMagenta, "player.achievements.vampirez_survivor_wins"),
		counter("The Walls", "Wins", ColorGold, "player.achievements.walls_wins"),
		counter("Warlords", "Wins", ColorPurple, "player.stats.Battleground.wins"),
		{Title: "Wool Games", Stat: "Combined Wins", Color: ColorTeal, Scorer: Combined("Combined Wins", hypixel.WoolGamesWinPaths...)},
		leveled("Wool Wars", "Level", ColorTeal, hypixel.PathWoolWarsXP, LevelFormat(hypixel.WoolWarsLevel)),
	}
}
