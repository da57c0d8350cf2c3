package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"heinzbottle/hypixel"
	"heinzbottle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPromotionService(source StatSource, factory UnitOfWorkFactory) *promotionService {
	svc := NewPromotionService(source, noLimit{}, factory, testRules, "guild", 2).(*promotionService)
	svc.now = func() time.Time { return testNow }
	return svc
}

// setupReadOnlyUnitOfWork makes every unit of work look up users through userRepo
func setupReadOnlyUnitOfWork(userRepo *MockUserRepository) *MockUnitOfWorkFactory {
	uow := new(MockUnitOfWork)
	uow.SetRepositories(userRepo, nil)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)

	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	return factory
}

func TestPromotionService_Report(t *testing.T) {
	ctx := context.Background()
	source := new(MockStatSource)
	userRepo := new(MockUserRepository)

	source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		// Scout tenure reached: promotable now
		hypixel.Member{UUID: testUUID(1), Rank: "Member", Joined: daysAgo(100)},
		// Scout in three days
		hypixel.Member{UUID: testUUID(2), Rank: "Member", Joined: daysAgo(87)},
		// Scout in twenty days
		hypixel.Member{UUID: testUUID(3), Rank: "Member", Joined: daysAgo(70)},
		// Scout in eighty days: outside every window
		hypixel.Member{UUID: testUUID(4), Rank: "Member", Joined: daysAgo(10)},
		// Veterans are never evaluated
		hypixel.Member{UUID: testUUID(5), Rank: "Veteran", Joined: daysAgo(1000)},
		// Ranks outside the ladder are never evaluated
		hypixel.Member{UUID: testUUID(6), Rank: "Guild Master", Joined: daysAgo(1000)},
	), nil)
	source.On("FetchPlayer", mock.Anything, testUUID(1)).Return(levelDoc("Alpha", testUUID(1), 90, 1), nil)
	source.On("FetchPlayer", mock.Anything, testUUID(2)).Return(levelDoc("Bravo", testUUID(2), 90, 1), nil)
	source.On("FetchPlayer", mock.Anything, testUUID(3)).Return(levelDoc("Charlie", testUUID(3), 90, 1), nil)
	source.On("FetchPlayer", mock.Anything, testUUID(4)).Return(levelDoc("Delta", testUUID(4), 90, 1), nil)
	userRepo.On("GetByMinecraftUUID", mock.Anything, mock.Anything).Return(nil, nil)

	svc := newTestPromotionService(source, setupReadOnlyUnitOfWork(userRepo))
	report, err := svc.Report(ctx)

	require.NoError(t, err)
	require.Len(t, report.Now, 1)
	assert.Equal(t, "Alpha", report.Now[0].Name)
	assert.Equal(t, models.RankScout, report.Now[0].Rank)

	require.Len(t, report.VerySoon, 1)
	assert.Equal(t, "Bravo", report.VerySoon[0].Name)
	assert.Equal(t, testNow.Add(3*24*time.Hour), report.VerySoon[0].At)

	require.Len(t, report.Soon, 1)
	assert.Equal(t, "Charlie", report.Soon[0].Name)

	source.AssertNotCalled(t, "FetchPlayer", mock.Anything, testUUID(5))
	source.AssertNotCalled(t, "FetchPlayer", mock.Anything, testUUID(6))
}

func TestPromotionService_Report_PreviousHighestRankHalvesTenure(t *testing.T) {
	ctx := context.Background()
	source := new(MockStatSource)
	userRepo := new(MockUserRepository)

	source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		hypixel.Member{UUID: testUUID(1), Rank: "Member", Joined: daysAgo(50)},
	), nil)
	source.On("FetchPlayer", mock.Anything, testUUID(1)).Return(levelDoc("Alpha", testUUID(1), 90, 1), nil)
	uuid := testUUID(1)
	userRepo.On("GetByMinecraftUUID", mock.Anything, testUUID(1)).Return(&models.User{
		ID:            1,
		MinecraftUUID: &uuid,
		Standing:      models.Standing{HighestRank: models.RankScout},
	}, nil)

	svc := newTestPromotionService(source, setupReadOnlyUnitOfWork(userRepo))
	report, err := svc.Report(ctx)

	require.NoError(t, err)
	require.Len(t, report.Now, 1)
	assert.Equal(t, models.RankScout, report.Now[0].Rank)
}

func TestPromotionService_Report_SkipsFailedAndFutureMembers(t *testing.T) {
	ctx := context.Background()
	source := new(MockStatSource)
	userRepo := new(MockUserRepository)

	source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		hypixel.Member{UUID: testUUID(1), Rank: "Member", Joined: daysAgo(100)},
		hypixel.Member{UUID: testUUID(2), Rank: "Member", Joined: testNow.Add(24 * time.Hour)},
	), nil)
	source.On("FetchPlayer", mock.Anything, testUUID(1)).Return(nil, errors.New("timeout"))

	svc := newTestPromotionService(source, setupReadOnlyUnitOfWork(userRepo))
	report, err := svc.Report(ctx)

	require.NoError(t, err)
	assert.True(t, report.Empty())
	source.AssertNotCalled(t, "FetchPlayer", mock.Anything, testUUID(2))
	userRepo.AssertNotCalled(t, "GetByMinecraftUUID", mock.Anything, mock.Anything)
}

func TestPromotionService_Report_SkipsMembersWithoutJoinDate(t *testing.T) {
	ctx := context.Background()
	source := new(MockStatSource)
	userRepo := new(MockUserRepository)

	source.On("FetchGuild", mock.Anything, "guild").Return(testGuild(
		hypixel.Member{UUID: testUUID(1), Rank: "Member"},
	), nil)

	svc := newTestPromotionService(source, setupReadOnlyUnitOfWork(userRepo))
	report, err := svc.Report(ctx)

	require.NoError(t, err)
	assert.True(t, report.Empty())
	source.AssertNotCalled(t, "FetchPlayer", mock.Anything, testUUID(1))
}

func TestPromotionService_Report_RosterFailure(t *testing.T) {
	source := new(MockStatSource)
	source.On("FetchGuild", mock.Anything, "guild").Return(nil, hypixel.ErrGuildNotFound)

	svc := newTestPromotionService(source, new(MockUnitOfWorkFactory))
	_, err := svc.Report(context.Background())

	assert.ErrorIs(t, err, ErrGuildNotFound)
}
