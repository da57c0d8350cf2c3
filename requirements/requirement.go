package requirements

import (
	"heinzbottle/hypixel"
	"heinzbottle/statdoc"
)

// Requirement is a named milestone a player either meets or does not
type Requirement struct {
	Title string
	Game  string
	check func(doc *statdoc.Document) bool
}

// Met reports whether the player document satisfies the requirement
func (r Requirement) Met(doc *statdoc.Document) bool {
	if r.check == nil {
		return false
	}
	return r.check(doc)
}

// Simple requires the number at path to be at least minimum
func Simple(title, game, path string, minimum float64) Requirement {
	return Requirement{
		Title: title,
		Game:  game,
		check: func(doc *statdoc.Document) bool {
			value, _ := doc.Number(path)
			return value >= minimum
		},
	}
}

// Additive requires the sum of two numbers to be at least minimum
func Additive(title, game, pathA, pathB string, minimum float64) Requirement {
	return Requirement{
		Title: title,
		Game:  game,
		check: func(doc *statdoc.Document) bool {
			a, _ := doc.Number(pathA)
			b, _ := doc.Number(pathB)
			return a+b >= minimum
		},
	}
}

// Compound requires two numbers to each reach their own minimum
func Compound(title, game, pathA string, minA float64, pathB string, minB float64) Requirement {
	return Requirement{
		Title: title,
		Game:  game,
		check: func(doc *statdoc.Document) bool {
			a, _ := doc.Number(pathA)
			b, _ := doc.Number(pathB)
			return a >= minA && b >= minB
		},
	}
}

// Predicated delegates to an arbitrary predicate over the document
func Predicated(title, game string, predicate func(doc *statdoc.Document) bool) Requirement {
	return Requirement{Title: title, Game: game, check: predicate}
}

// RuleSet is the ordered list of guild requirements
type RuleSet struct {
	requirements []Requirement
}

// NewRuleSet creates a rule set from the given requirements
func NewRuleSet(requirements ...Requirement) *RuleSet {
	return &RuleSet{requirements: requirements}
}

// All returns every requirement in declaration order
func (s *RuleSet) All() []Requirement {
	out := make([]Requirement, len(s.requirements))
	copy(out, s.requirements)
	return out
}

// Met returns the requirements satisfied by the document in declaration order
func (s *RuleSet) Met(doc *statdoc.Document) []Requirement {
	var met []Requirement
	for _, r := range s.requirements {
		if r.Met(doc) {
			met = append(met, r)
		}
	}
	return met
}

// Evaluate returns the titles of the satisfied requirements
func (s *RuleSet) Evaluate(doc *statdoc.Document) []string {
	met := s.Met(doc)
	titles := make([]string, len(met))
	for i, r := range met {
		titles[i] = r.Title
	}
	return titles
}

// Count returns how many requirements the document satisfies
func (s *RuleSet) Count(doc *statdoc.Document) int {
	count := 0
	for _, r := range s.requirements {
		if r.Met(doc) {
			count++
		}
	}
	return count
}

// Default returns the guild's current requirement list
func Default() *RuleSet {
	return NewRuleSet(
		Simple("8-bit", "Arcade", "player.achievements.arcade_arcade_winner", 500),
		Simple("Cookie Clicker", "The Pit", "player.achievements.pit_prestiges", 8),
		Simple("Rush B", "Cops and Crims", "player.stats.MCGO.game_wins", 500),
		Simple("Red is Sus", "Murder Mystery", "player.stats.MurderMystery.wins", 750),
		Simple("MMA", "Arena Brawl", "player.stats.Arena.wins", 300),
		Simple("Blue shell", "Turbo Kart Racers", "player.achievements.gingerbread_winner", 300),
		Simple("Sonic", "Speed UHC", "player.stats.SpeedUHC.wins", 250),
		Additive("Mockingjay", "Blitz Survival Games", "player.achievements.blitz_wins", "player.achievements.blitz_wins_teams", 300),
		Simple("Short fuse", "TNT Games", "player.stats.TNTGames.wins", 300),
		Simple("Dreamer", "Bed Wars", "player.achievements.bedwars_wins", 1000),
		Simple("Icarus", "SkyWars", "player.stats.SkyWars.wins", 1000),
		Simple("Trap card", "Duels", "player.achievements.duels_duels_winner", 4000),
		Additive("Van Helsing", "VampireZ", "player.stats.VampireZ.human_wins", "player.stats.VampireZ.vampire_wins", 150),
		Compound("Sniper", "Quakecraft", "player.achievements.quake_wins", 150, "player.achievements.quake_kills", 10000),
		Simple("Time traveler", "Crazy Walls", "player.stats.TrueCombat.wins", 100),
		Simple("John Smith", "SkyClash", "player.achievements.skyclash_wins", 100),
		Compound("Champion", "UHC", "player.stats.UHC.wins", 5, "player.stats.UHC.kills", 50),
		Simple("Ares", "The Walls", "player.achievements.walls_wins", 100),
		Simple("Pacifist", "Build Battle", "player.achievements.buildbattle_build_battle_score", 7500),
		Simple("Warrior", "Warlords", "player.stats.Battleground.wins", 150),
		Simple("Final destination", "Smash Heroes", "player.stats.SuperSmash.smashLevel", 150),
		Simple("Hades", "Mega Walls", "player.achievements.walls3_wins", 50),
		Compound("Snow baller", "Paintball Warfare", "player.achievements.paintball_wins", 300, "player.achievements.paintball_kills", 10000),
		Simple("Yggdrasil", "SkyBlock", "player.achievements.skyblock_sb_levels", 120),
		Predicated("Shepherd", "Wool Games", func(doc *statdoc.Document) bool {
			return hypixel.TotalWoolGamesWins(doc) >= 600
		}),
	)
}
