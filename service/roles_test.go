package service

import (
	"testing"

	"heinzbottle/models"
	"heinzbottle/requirements"

	"github.com/stretchr/testify/assert"
)

func TestRoleConfig_PlanRoles(t *testing.T) {
	first := testRules.All()[0]

	tests := []struct {
		name       string
		state      RoleState
		current    []string
		wantAdd    []string
		wantRemove []string
	}{
		{
			name:       "new member",
			state:      RoleState{IsGuildMember: true, Met: []requirements.Requirement{first}},
			current:    []string{"role-guest"},
			wantAdd:    []string{"role-first", "role-member"},
			wantRemove: []string{"role-guest"},
		},
		{
			name:       "member who left",
			state:      RoleState{},
			current:    []string{"role-member", "role-first", "role-second"},
			wantAdd:    []string{"role-guest"},
			wantRemove: []string{"role-first", "role-second", "role-member"},
		},
		{
			name:       "honorary quest guest",
			state:      RoleState{Standing: models.Standing{HonoraryQuest: true}},
			current:    []string{"role-guest"},
			wantAdd:    []string{"role-hq"},
			wantRemove: []string{"role-guest"},
		},
		{
			name:       "members lose the honorary quest role",
			state:      RoleState{IsGuildMember: true, Standing: models.Standing{HonoraryQuest: true}},
			current:    []string{"role-member", "role-hq"},
			wantRemove: []string{"role-hq"},
		},
		{
			name:       "treehard plus replaces treehard",
			state:      RoleState{IsGuildMember: true, Standing: models.Standing{Treehard: models.TreehardPlus}},
			current:    []string{"role-member", "role-treehard"},
			wantAdd:    []string{"role-treehard-plus"},
			wantRemove: []string{"role-treehard"},
		},
		{
			name:    "top ten",
			state:   RoleState{IsGuildMember: true, BestPosition: 10},
			current: []string{"role-member"},
			wantAdd: []string{"role-challenger", "role-leaderboarder"},
		},
		{
			name:    "top hundred",
			state:   RoleState{IsGuildMember: true, BestPosition: 100},
			current: []string{"role-member", "role-leaderboarder"},
			wantAdd: []string{"role-challenger"},
		},
		{
			name:    "unranked keeps earned position roles",
			state:   RoleState{IsGuildMember: true},
			current: []string{"role-member", "role-challenger"},
		},
		{
			name:    "nothing to change",
			state:   RoleState{IsGuildMember: true, Met: []requirements.Requirement{first}},
			current: []string{"role-member", "role-first"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := testRoles.PlanRoles(tt.state, tt.current)
			assert.ElementsMatch(t, tt.wantAdd, changes.Add)
			assert.ElementsMatch(t, tt.wantRemove, changes.Remove)
		})
	}
}

func TestRoleConfig_PlanRoles_SkipsUnconfiguredRoles(t *testing.T) {
	roles := RoleConfig{GuildMember: "role-member"}

	changes := roles.PlanRoles(RoleState{BestPosition: 1, Standing: models.Standing{Treehard: models.Treehard}}, []string{"role-member"})

	assert.Empty(t, changes.Add)
	assert.Equal(t, []string{"role-member"}, changes.Remove)
	assert.False(t, changes.Empty())
	assert.True(t, RoleChanges{}.Empty())
}

func TestRoleConfig_StandingFromRoles(t *testing.T) {
	standing := testRoles.StandingFromRoles(
		models.Standing{HighestRank: models.RankScout, Treehard: models.TreehardPlus},
		[]string{"role-hq", "role-treehard"},
	)

	assert.Equal(t, models.Standing{
		HighestRank:   models.RankScout,
		Treehard:      models.TreehardPlus,
		HonoraryQuest: true,
	}, standing)
}
