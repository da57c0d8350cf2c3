package service

import (
	"context"
	"testing"
	"time"

	"heinzbottle/events"
	"heinzbottle/hypixel"
	"heinzbottle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRoles = RoleConfig{
	GuildMember:   "role-member",
	Guest:         "role-guest",
	HonoraryQuest: "role-hq",
	Treehard:      "role-treehard",
	TreehardPlus:  "role-treehard-plus",
	Challenger:    "role-challenger",
	Leaderboarder: "role-leaderboarder",
	Requirements: map[string]string{
		"First":  "role-first",
		"Second": "role-second",
		"Third":  "role-third",
	},
}

type memberFixture struct {
	svc       *memberService
	source    *MockStatSource
	uow       *MockUnitOfWork
	users     *MockUserRepository
	publisher *MockEventPublisher
}

func newMemberFixture(leaderboards LeaderboardService) *memberFixture {
	f := &memberFixture{
		source:    new(MockStatSource),
		uow:       new(MockUnitOfWork),
		users:     new(MockUserRepository),
		publisher: new(MockEventPublisher),
	}
	f.uow.SetRepositories(f.users, f.publisher)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback").Return(nil)

	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(f.uow)

	f.svc = NewMemberService(f.source, noLimit{}, factory, leaderboards, testRules, testRoles, "guild").(*memberService)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func linkedUser(id, discordID int64, uuid string, standing models.Standing) *models.User {
	return &models.User{ID: id, DiscordID: &discordID, MinecraftUUID: &uuid, Standing: standing}
}

func TestMemberService_Link_NewUser(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	discordID := int64(42)

	f.source.On("FetchPlayerByName", mock.Anything, "alpha").Return(playerDoc("Alpha", uuid, nil), nil)
	f.users.On("GetByMinecraftUUID", ctx, uuid).Return(nil, nil)
	f.users.On("GetByDiscordID", ctx, discordID).Return(nil, nil)
	f.users.On("Create", ctx, &discordID, &uuid).Return(linkedUser(7, discordID, uuid, models.Standing{}), nil)
	f.publisher.On("Publish", events.UserLinkedEvent{UserID: 7, DiscordID: discordID, MinecraftUUID: uuid, Username: "Alpha"}).Return()
	f.uow.On("Commit").Return(nil)

	result, err := f.svc.Link(ctx, discordID, "alpha")

	require.NoError(t, err)
	assert.True(t, result.Enrolled)
	assert.False(t, result.Unchanged)
	assert.Equal(t, "Alpha", result.Username)
	assert.Equal(t, int64(7), result.User.ID)
	f.users.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}

func TestMemberService_Link_ExistingUserRelinks(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(2)
	discordID := int64(42)
	existing := &models.User{ID: 7, DiscordID: &discordID}

	f.source.On("FetchPlayerByName", mock.Anything, "bravo").Return(playerDoc("Bravo", uuid, nil), nil)
	f.users.On("GetByMinecraftUUID", ctx, uuid).Return(nil, nil)
	f.users.On("GetByDiscordID", ctx, discordID).Return(existing, nil)
	f.users.On("LinkMinecraft", ctx, int64(7), uuid).Return(linkedUser(7, discordID, uuid, models.Standing{}), nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.UserLinkedEvent")).Return()
	f.uow.On("Commit").Return(nil)

	result, err := f.svc.Link(ctx, discordID, "bravo")

	require.NoError(t, err)
	assert.False(t, result.Enrolled)
	assert.Equal(t, uuid, *result.User.MinecraftUUID)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestMemberService_Link_AccountHeldByAnotherUser(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)

	f.source.On("FetchPlayerByName", mock.Anything, "alpha").Return(playerDoc("Alpha", uuid, nil), nil)
	f.users.On("GetByMinecraftUUID", ctx, uuid).Return(linkedUser(3, 99, uuid, models.Standing{}), nil)

	_, err := f.svc.Link(ctx, 42, "alpha")

	assert.ErrorIs(t, err, ErrAccountAlreadyLinked)
	var linked *LinkedElsewhereError
	require.ErrorAs(t, err, &linked)
	assert.Equal(t, "Alpha", linked.Username)
	assert.Equal(t, int64(99), *linked.DiscordID)
	f.uow.AssertNotCalled(t, "Commit")
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestMemberService_Link_AlreadyLinkedToSameUser(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)

	f.source.On("FetchPlayerByName", mock.Anything, "alpha").Return(playerDoc("Alpha", uuid, nil), nil)
	f.users.On("GetByMinecraftUUID", ctx, uuid).Return(linkedUser(3, 42, uuid, models.Standing{}), nil)

	result, err := f.svc.Link(ctx, 42, "alpha")

	require.NoError(t, err)
	assert.True(t, result.Unchanged)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestMemberService_Link_UnknownPlayer(t *testing.T) {
	f := newMemberFixture(nil)
	f.source.On("FetchPlayerByName", mock.Anything, "ghost").Return(nil, hypixel.ErrPlayerNotFound)

	_, err := f.svc.Link(context.Background(), 42, "ghost")

	assert.ErrorIs(t, err, ErrPlayerNotFound)
	f.users.AssertNotCalled(t, "GetByMinecraftUUID", mock.Anything, mock.Anything)
}

func TestMemberService_Sync_RaisesRankFromEligibility(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	user := linkedUser(7, 42, uuid, models.Standing{HighestRank: models.RankMember})
	raised := models.Standing{HighestRank: models.RankScout}

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(user, nil)
	f.source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		hypixel.Member{UUID: uuid, Rank: "Member", Joined: daysAgo(120)},
	), nil)
	f.source.On("FetchPlayer", mock.Anything, uuid).Return(levelDoc("Alpha", uuid, 90, 2), nil)
	f.users.On("UpdateStanding", ctx, int64(7), raised).Return(linkedUser(7, 42, uuid, raised), nil)
	f.publisher.On("Publish", events.StandingChangedEvent{
		UserID:        7,
		DiscordID:     42,
		MinecraftUUID: uuid,
		OldRank:       models.RankMember,
		NewRank:       models.RankScout,
	}).Return()
	f.uow.On("Commit").Return(nil)

	result, err := f.svc.Sync(ctx, 42, []string{"role-guest", "role-first"})

	require.NoError(t, err)
	assert.True(t, result.IsGuildMember)
	assert.True(t, result.RankChanged())
	assert.Equal(t, models.RankScout, result.NewRank)
	assert.ElementsMatch(t, []string{"role-second", "role-member"}, result.Roles.Add)
	assert.ElementsMatch(t, []string{"role-guest"}, result.Roles.Remove)
	f.users.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestMemberService_Sync_NeverLowersRank(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	user := linkedUser(7, 42, uuid, models.Standing{HighestRank: models.RankLieutenant})

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(user, nil)
	f.source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		hypixel.Member{UUID: uuid, Rank: "Member", Joined: daysAgo(5)},
	), nil)
	f.source.On("FetchPlayer", mock.Anything, uuid).Return(levelDoc("Alpha", uuid, 90, 1), nil)
	f.uow.On("Commit").Return(nil)

	result, err := f.svc.Sync(ctx, 42, nil)

	require.NoError(t, err)
	assert.False(t, result.RankChanged())
	assert.Equal(t, models.RankLieutenant, result.NewRank)
	f.users.AssertNotCalled(t, "UpdateStanding", mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestMemberService_Sync_MissingJoinDateSkipsEligibility(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	user := linkedUser(7, 42, uuid, models.Standing{HighestRank: models.RankMember})

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(user, nil)
	f.source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		hypixel.Member{UUID: uuid, Rank: "Member"},
	), nil)
	f.source.On("FetchPlayer", mock.Anything, uuid).Return(levelDoc("Alpha", uuid, 90, 2), nil)
	f.uow.On("Commit").Return(nil)

	result, err := f.svc.Sync(ctx, 42, nil)

	require.NoError(t, err)
	assert.True(t, result.IsGuildMember)
	assert.Equal(t, models.RankMember, result.NewRank)
	f.users.AssertNotCalled(t, "UpdateStanding", mock.Anything, mock.Anything, mock.Anything)
}

func TestMemberService_Sync_GuestKeepsRecognitionFromRoles(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	user := linkedUser(7, 42, uuid, models.Standing{})
	raised := models.Standing{HonoraryQuest: true, Treehard: models.Treehard}

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(user, nil)
	f.source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(), nil)
	f.source.On("FetchPlayer", mock.Anything, uuid).Return(levelDoc("Alpha", uuid, 90, 3), nil)
	f.users.On("UpdateStanding", ctx, int64(7), raised).Return(linkedUser(7, 42, uuid, raised), nil)
	f.uow.On("Commit").Return(nil)

	result, err := f.svc.Sync(ctx, 42, []string{"role-hq", "role-treehard", "role-first", "role-member"})

	require.NoError(t, err)
	assert.False(t, result.IsGuildMember)
	assert.Empty(t, result.Roles.Add)
	assert.ElementsMatch(t, []string{"role-first", "role-member"}, result.Roles.Remove)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestMemberService_Sync_NotEnrolled(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	f.users.On("GetByDiscordID", ctx, int64(42)).Return(nil, nil)

	_, err := f.svc.Sync(ctx, 42, nil)
	assert.ErrorIs(t, err, ErrUserNotEnrolled)

	g := newMemberFixture(nil)
	g.users.On("GetByDiscordID", ctx, int64(42)).Return(&models.User{ID: 7}, nil)

	_, err = g.svc.Sync(ctx, 42, nil)
	assert.ErrorIs(t, err, ErrMinecraftNotLinked)
}

func TestMemberService_Sync_UsesLeaderboardPosition(t *testing.T) {
	ctx := context.Background()
	source := new(MockStatSource)
	setupRoster(source)
	leaderboards := newTestLeaderboardService(source, nil)
	_, err := leaderboards.Refresh(ctx)
	require.NoError(t, err)

	f := newMemberFixture(leaderboards)
	uuid := testUUID(3)
	user := linkedUser(7, 42, uuid, models.Standing{HighestRank: models.RankMember})
	f.users.On("GetByDiscordID", ctx, int64(42)).Return(user, nil)
	f.source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		hypixel.Member{UUID: uuid, Rank: "Member", Joined: daysAgo(5)},
	), nil)
	f.source.On("FetchPlayer", mock.Anything, uuid).Return(playerDoc("Charlie", uuid, nil), nil)
	f.uow.On("Commit").Return(nil)

	result, err := f.svc.Sync(ctx, 42, []string{"role-member"})

	require.NoError(t, err)
	assert.Equal(t, 3, result.BestPosition)
	assert.Equal(t, []string{"role-challenger", "role-leaderboarder"}, result.Roles.Add)
}

func TestMemberService_Requirements(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	color := 0x123456
	holder := linkedUser(7, 42, uuid, models.Standing{})
	holder.SignatureColor = &color

	f.source.On("FetchPlayerByName", mock.Anything, "alpha").Return(levelDoc("Alpha", uuid, 90, 2), nil)
	f.users.On("GetByMinecraftUUID", ctx, uuid).Return(holder, nil)

	result, err := f.svc.Requirements(ctx, 1, "alpha")

	require.NoError(t, err)
	assert.Equal(t, "Alpha", result.Username)
	assert.Equal(t, 90, int(result.Level))
	require.Len(t, result.Met, 2)
	assert.Equal(t, "First", result.Met[0].Title)
	require.Len(t, result.Unmet, 1)
	assert.Equal(t, "Third", result.Unmet[0].Title)
	assert.True(t, result.MeetsGuildRequirements())
	assert.Equal(t, &color, result.SignatureColor)
}

func TestMemberService_Requirements_LinkedAccount(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(linkedUser(7, 42, uuid, models.Standing{}), nil)
	f.source.On("FetchPlayer", mock.Anything, uuid).Return(levelDoc("Alpha", uuid, 50, 0), nil)
	f.users.On("GetByMinecraftUUID", ctx, uuid).Return(nil, nil)

	result, err := f.svc.Requirements(ctx, 42, "")

	require.NoError(t, err)
	assert.Empty(t, result.Met)
	assert.False(t, result.MeetsGuildRequirements())
	assert.Nil(t, result.SignatureColor)
}

func TestMemberService_Requirements_NotLinked(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	f.users.On("GetByDiscordID", ctx, int64(42)).Return(&models.User{ID: 7}, nil)

	_, err := f.svc.Requirements(ctx, 42, "")

	assert.ErrorIs(t, err, ErrMinecraftNotLinked)
}

func TestMemberService_UserInfo(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	user := linkedUser(7, 42, uuid, models.Standing{HighestRank: models.RankScout})

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(user, nil)
	f.source.On("FetchPlayer", mock.Anything, uuid).Return(playerDoc("Alpha", uuid, nil), nil)

	info, err := f.svc.UserInfo(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, "Alpha", info.Username)
	assert.Equal(t, 0, info.BestPosition)
	assert.Same(t, user, info.User)
}

func TestMemberService_UserInfoByUsername_NotEnrolled(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)

	f.source.On("FetchPlayerByName", mock.Anything, "alpha").Return(playerDoc("Alpha", uuid, nil), nil)
	f.users.On("GetByMinecraftUUID", ctx, uuid).Return(nil, nil)

	_, err := f.svc.UserInfoByUsername(ctx, "alpha")

	assert.ErrorIs(t, err, ErrUserNotEnrolled)
}

func TestMemberService_SetSignatureColor(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	color := 0xFF0000

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(&models.User{ID: 7}, nil)
	f.users.On("SetSignatureColor", ctx, int64(7), &color).Return(nil)
	f.uow.On("Commit").Return(nil)

	require.NoError(t, f.svc.SetSignatureColor(ctx, 42, &color))
	f.users.AssertExpectations(t)

	invalid := 0x1000000
	assert.Error(t, f.svc.SetSignatureColor(ctx, 42, &invalid))
}

func TestMemberService_GrantStanding(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	uuid := testUUID(1)
	granted := models.Standing{HighestRank: models.RankVeteran, Treehard: models.TreehardPlus}

	f.users.On("GetByDiscordID", ctx, int64(42)).Return(linkedUser(7, 42, uuid, models.Standing{HighestRank: models.RankScout}), nil)
	f.users.On("UpdateStanding", ctx, int64(7), granted).Return(linkedUser(7, 42, uuid, granted), nil)
	f.publisher.On("Publish", events.StandingChangedEvent{
		UserID:        7,
		DiscordID:     42,
		MinecraftUUID: uuid,
		OldRank:       models.RankScout,
		NewRank:       models.RankVeteran,
	}).Return()
	f.uow.On("Commit").Return(nil)

	user, err := f.svc.GrantStanding(ctx, 42, granted)

	require.NoError(t, err)
	assert.Equal(t, granted, user.Standing)
	f.publisher.AssertExpectations(t)
}

func TestMemberService_UserInfoByID(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(nil)
	user := &models.User{ID: 9}

	f.users.On("GetByID", ctx, int64(9)).Return(user, nil)
	f.users.On("GetByID", ctx, int64(10)).Return(nil, nil)

	info, err := f.svc.UserInfoByID(ctx, 9)
	require.NoError(t, err)
	assert.Same(t, user, info.User)
	assert.Empty(t, info.Username)
	f.source.AssertNotCalled(t, "FetchPlayer", mock.Anything, mock.Anything)

	_, err = f.svc.UserInfoByID(ctx, 10)
	assert.ErrorIs(t, err, ErrUserNotEnrolled)
}
