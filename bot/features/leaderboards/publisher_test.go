package leaderboards

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"heinzbottle/leaderboard"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel keeps messages per channel in posting order
type fakeChannel struct {
	nextID   int
	messages map[string][]*discordgo.Message
	deleted  []string
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{messages: make(map[string][]*discordgo.Message)}
}

func (c *fakeChannel) id() string {
	c.nextID++
	return fmt.Sprintf("%d", c.nextID)
}

func (c *fakeChannel) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	history := slices.Clone(c.messages[channelID])
	slices.Reverse(history)
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (c *fakeChannel) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	message := &discordgo.Message{ID: c.id(), ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{embed}}
	c.messages[channelID] = append(c.messages[channelID], message)
	return message, nil
}

func (c *fakeChannel) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	c.messages[channelID] = slices.DeleteFunc(c.messages[channelID], func(m *discordgo.Message) bool {
		return m.ID == messageID
	})
	c.deleted = append(c.deleted, messageID)
	return nil
}

func (c *fakeChannel) ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	delete(c.messages, channelID)
	c.deleted = append(c.deleted, channelID)
	return &discordgo.Channel{ID: channelID}, nil
}

func (c *fakeChannel) MessageThreadStart(channelID, messageID string, name string, archiveDuration int, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	thread := &discordgo.Channel{ID: c.id(), Name: name}
	for _, message := range c.messages[channelID] {
		if message.ID == messageID {
			message.Thread = thread
		}
	}
	return thread, nil
}

func testSnapshot() *service.Snapshot {
	karma := leaderboard.NewEngine(leaderboard.Definition{Title: "Karma", Color: leaderboard.ColorBlue})
	karma.EnterScore("Alpha", 300)
	karma.EnterScore("Mr_Bravo", 200)
	wins := leaderboard.NewEngine(leaderboard.Definition{Title: "Bed Wars", Stat: "Wins", Color: leaderboard.ColorRed})
	wins.EnterScore("Mr_Bravo", 12)

	rollup := leaderboard.NewRollup()
	rollup.Add("Alpha")
	rollup.Add("Mr_Bravo")
	rollup.Merge(karma.GenerateRankings())
	rollup.Merge(wins.GenerateRankings())

	return &service.Snapshot{
		Boards:      []*leaderboard.Engine{karma, wins},
		Rollup:      rollup,
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_PublishThenRead(t *testing.T) {
	ctx := context.Background()
	channel := newFakeChannel()
	publisher := NewPublisher(channel, "lb", nil)

	require.NoError(t, publisher.Publish(ctx, testSnapshot()))

	posted := channel.messages["lb"]
	require.Len(t, posted, 3)
	assert.Equal(t, "Karma", posted[0].Embeds[0].Title)
	assert.Equal(t, "Karma", posted[0].Thread.Name)
	assert.Equal(t, "Bed Wars", posted[1].Embeds[0].Title)
	assert.Equal(t, "Wins", posted[1].Embeds[0].Description)
	assert.Equal(t, "Bed Wars (Wins)", posted[1].Thread.Name)
	assert.Equal(t, FinishedMessage, posted[2].Embeds[0].Description)
	assert.Nil(t, posted[2].Thread)

	boards, err := publisher.ReadPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.PublishedBoard{
		{Title: "Karma", Pages: []string{"`#001:` Alpha (300)\n`#002:` Mr\\_Bravo (200)"}},
		{Title: "Bed Wars", Stat: "Wins", Pages: []string{"`#001:` Mr\\_Bravo (12)"}},
	}, boards)
}

func TestPublisher_RoundTripRecoversRankings(t *testing.T) {
	ctx := context.Background()
	channel := newFakeChannel()
	publisher := NewPublisher(channel, "lb", nil)
	snapshot := testSnapshot()
	require.NoError(t, publisher.Publish(ctx, snapshot))

	boards, err := publisher.ReadPublished(ctx)
	require.NoError(t, err)

	definitions := []leaderboard.Definition{snapshot.Boards[0].Definition(), snapshot.Boards[1].Definition()}
	svc := service.NewLeaderboardService(nil, nil, nil, definitions, service.LeaderboardConfig{})
	result, err := svc.Recover(ctx, boards)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Boards)
	assert.Equal(t, 2, result.Players)
	assert.Equal(t, snapshot.Rankings("mr_bravo"), svc.Snapshot().Rankings("mr_bravo"))
}

func TestPublisher_RefusesRecoveredSnapshot(t *testing.T) {
	channel := newFakeChannel()
	snapshot := testSnapshot()
	snapshot.Recovered = true

	err := NewPublisher(channel, "lb", nil).Publish(context.Background(), snapshot)

	assert.ErrorIs(t, err, ErrRecoveredSnapshot)
	assert.Empty(t, channel.messages["lb"])
}

func TestPublisher_Wipe(t *testing.T) {
	ctx := context.Background()
	channel := newFakeChannel()
	publisher := NewPublisher(channel, "lb", nil)
	require.NoError(t, publisher.Publish(ctx, testSnapshot()))

	require.NoError(t, publisher.Wipe(ctx))

	assert.Empty(t, channel.messages["lb"])
	assert.Len(t, channel.deleted, 5)
}

func TestPublisher_ReadPublishedIgnoresStrayMessages(t *testing.T) {
	ctx := context.Background()
	channel := newFakeChannel()
	_, _ = channel.ChannelMessageSendEmbed("lb", &discordgo.MessageEmbed{Title: "Announcement"})
	channel.messages["lb"] = append(channel.messages["lb"], &discordgo.Message{ID: "plain", Content: "hello"})

	boards, err := NewPublisher(channel, "lb", nil).ReadPublished(ctx)

	require.NoError(t, err)
	assert.Empty(t, boards)
}

func TestPageEmbeds_EmptyBoard(t *testing.T) {
	board := leaderboard.NewEngine(leaderboard.Definition{Title: "Karma", Color: leaderboard.ColorBlue})

	embeds := PageEmbeds(board)

	require.Len(t, embeds, 1)
	assert.Equal(t, leaderboard.EmptyBoardPage, embeds[0].Description)
	assert.Zero(t, embeds[0].Color)
}

func TestCooldownMessage(t *testing.T) {
	assert.Equal(t, "The leaderboards were updated recently. Try again in 91 minute(s).", CooldownMessage(90*time.Minute+time.Second))
	assert.Equal(t, "The leaderboards were updated recently. Try again in 1 minute(s).", CooldownMessage(0))
}

func TestRecoveryMessage(t *testing.T) {
	message := RecoveryMessage(&service.RecoveryResult{Boards: 30, Players: 120, Skipped: 2, Unmatched: []string{"Old"}})

	assert.Equal(t, "Recovered rankings for 120 players from 30 leaderboards. 2 unreadable lines were skipped. 1 published boards are no longer tracked.", message)
}
