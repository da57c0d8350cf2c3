package service

import (
	"slices"

	"heinzbottle/models"
	"heinzbottle/requirements"
)

const (
	challengerCutoff    = 100
	leaderboarderCutoff = 10
)

// RoleConfig maps guild recognition to Discord role IDs. Empty IDs are never planned.
type RoleConfig struct {
	GuildMember   string
	Guest         string
	HonoraryQuest string
	Treehard      string
	TreehardPlus  string
	Challenger    string
	Leaderboarder string

	// Requirements maps requirement titles to the role awarded for meeting them
	Requirements map[string]string
}

// RoleChanges lists the roles to add to and remove from a Discord member
type RoleChanges struct {
	Add    []string
	Remove []string
}

// Empty reports whether no role needs to change
func (c RoleChanges) Empty() bool {
	return len(c.Add) == 0 && len(c.Remove) == 0
}

// RoleState is what a role plan is computed from
type RoleState struct {
	IsGuildMember bool
	Met           []requirements.Requirement
	Standing      models.Standing
	BestPosition  int // zero when unranked
}

// StandingFromRoles raises standing with the recognition roles a member already holds
func (c RoleConfig) StandingFromRoles(standing models.Standing, current []string) models.Standing {
	if c.HonoraryQuest != "" && slices.Contains(current, c.HonoraryQuest) {
		standing.HonoraryQuest = true
	}
	if c.Treehard != "" && slices.Contains(current, c.Treehard) {
		standing.RaiseTreehard(models.Treehard)
	}
	if c.TreehardPlus != "" && slices.Contains(current, c.TreehardPlus) {
		standing.RaiseTreehard(models.TreehardPlus)
	}
	return standing
}

// PlanRoles computes the role changes that bring current in line with state.
// Only roles that would actually change are returned.
func (c RoleConfig) PlanRoles(state RoleState, current []string) RoleChanges {
	var add, remove []string
	want := func(role string, present bool) {
		if role == "" {
			return
		}
		if present {
			add = append(add, role)
		} else {
			remove = append(remove, role)
		}
	}

	met := make(map[string]bool, len(state.Met))
	for _, r := range state.Met {
		met[r.Title] = true
	}
	titles := make([]string, 0, len(c.Requirements))
	for title := range c.Requirements {
		titles = append(titles, title)
	}
	slices.Sort(titles)
	for _, title := range titles {
		role := c.Requirements[title]
		if state.IsGuildMember && met[title] {
			want(role, true)
		} else if !state.IsGuildMember {
			want(role, false)
		}
	}

	want(c.GuildMember, state.IsGuildMember)
	switch {
	case state.IsGuildMember:
		want(c.Guest, false)
		want(c.HonoraryQuest, false)
	case state.Standing.HonoraryQuest:
		want(c.HonoraryQuest, true)
		want(c.Guest, false)
	default:
		want(c.Guest, true)
		want(c.HonoraryQuest, false)
	}

	switch state.Standing.Treehard {
	case models.Treehard:
		want(c.Treehard, true)
		want(c.TreehardPlus, false)
	case models.TreehardPlus:
		want(c.Treehard, false)
		want(c.TreehardPlus, true)
	default:
		want(c.Treehard, false)
		want(c.TreehardPlus, false)
	}

	if state.BestPosition >= 1 && state.BestPosition <= challengerCutoff && c.Challenger != "" {
		add = append(add, c.Challenger)
	}
	if state.BestPosition >= 1 && state.BestPosition <= leaderboarderCutoff && c.Leaderboarder != "" {
		add = append(add, c.Leaderboarder)
	}

	var changes RoleChanges
	for _, role := range add {
		if !slices.Contains(current, role) && !slices.Contains(changes.Add, role) {
			changes.Add = append(changes.Add, role)
		}
	}
	for _, role := range remove {
		if slices.Contains(current, role) && !slices.Contains(changes.Add, role) && !slices.Contains(changes.Remove, role) {
			changes.Remove = append(changes.Remove, role)
		}
	}
	return changes
}
