package bot

import (
	"testing"
	"time"

	"heinzbottle/bot/common"
	"heinzbottle/events"
	"heinzbottle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEmbed(t *testing.T) {
	standing := EventEmbed(events.StandingChangedEvent{DiscordID: 42, OldRank: models.RankMember, NewRank: models.RankScout})
	require.NotNil(t, standing)
	assert.Equal(t, "<@42> went from **Member** to **Scout**.", standing.Description)
	assert.Equal(t, common.ColorPurple, standing.Color)

	linked := EventEmbed(events.UserLinkedEvent{DiscordID: 42, Username: "Mr_Bravo"})
	require.NotNil(t, linked)
	assert.Equal(t, "<@42> was linked to **Mr\\_Bravo**.", linked.Description)

	refreshed := EventEmbed(events.LeaderboardsRefreshedEvent{Players: 120, Failures: 2, Boards: 30, Duration: 95*time.Second + 400*time.Millisecond})
	require.NotNil(t, refreshed)
	assert.Equal(t, "30 boards from 120 players in 1m35s. 2 players could not be fetched.", refreshed.Description)
}

func TestCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range Commands() {
		assert.False(t, names[cmd.Name], "duplicate command %s", cmd.Name)
		names[cmd.Name] = true
	}

	for _, admin := range []string{"modify-user", "update-leaderboards", "recover-rankings", "promotions"} {
		for _, cmd := range Commands() {
			if cmd.Name == admin {
				require.NotNil(t, cmd.DefaultMemberPermissions, admin)
				assert.Equal(t, int64(0), *cmd.DefaultMemberPermissions&^adminPermissions)
			}
		}
	}
	assert.True(t, names["link-minecraft"])
	assert.Len(t, names, 9)
}
