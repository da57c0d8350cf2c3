package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"heinzbottle/events"
	"heinzbottle/hypixel"
	"heinzbottle/leaderboard"
	"heinzbottle/metrics"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// lockWait bounds how long a refresh waits for another one to finish before giving up
const lockWait = 100 * time.Millisecond

// LeaderboardConfig holds the refresh settings
type LeaderboardConfig struct {
	GuildID  string
	Workers  int
	Cooldown time.Duration
}

// RefreshResult summarizes a completed refresh
type RefreshResult struct {
	Snapshot *Snapshot
	Players  int
	Failures int
	Duration time.Duration
}

// PublishedBoard is a board read back from the leaderboards channel
type PublishedBoard struct {
	Title string
	Stat  string
	Pages []string
}

// RecoveryResult summarizes a recovery from published boards
type RecoveryResult struct {
	Boards    int
	Players   int
	Skipped   int
	Unmatched []string
}

// leaderboardService implements the LeaderboardService interface
type leaderboardService struct {
	source      StatSource
	limiter     Limiter
	publisher   EventPublisher
	definitions []leaderboard.Definition
	config      LeaderboardConfig

	lock        *semaphore.Weighted
	snapshot    atomic.Pointer[Snapshot]
	lastRefresh atomic.Pointer[time.Time]
	now         func() time.Time
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(source StatSource, limiter Limiter, publisher EventPublisher, definitions []leaderboard.Definition, config LeaderboardConfig) LeaderboardService {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &leaderboardService{
		source:      source,
		limiter:     limiter,
		publisher:   publisher,
		definitions: definitions,
		config:      config,
		lock:        semaphore.NewWeighted(1),
		now:         time.Now,
	}
}

// Snapshot returns the published snapshot
func (s *leaderboardService) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Definitions returns the boards in display order
func (s *leaderboardService) Definitions() []leaderboard.Definition {
	return append([]leaderboard.Definition(nil), s.definitions...)
}

// NextRefresh reports when the cooldown allows another refresh
func (s *leaderboardService) NextRefresh() time.Time {
	last := s.lastRefresh.Load()
	if last == nil {
		return time.Time{}
	}
	return last.Add(s.config.Cooldown)
}

func (s *leaderboardService) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()
	if err := s.lock.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrRefreshInProgress
	}
	return nil
}

// Refresh fetches every roster member, rebuilds all boards on fresh engines and publishes
// them. The published snapshot is left untouched on failure.
func (s *leaderboardService) Refresh(ctx context.Context) (*RefreshResult, error) {
	if err := s.acquire(ctx); err != nil {
		if errors.Is(err, ErrRefreshInProgress) {
			metrics.RefreshesTotal.WithLabelValues("busy").Inc()
		}
		return nil, err
	}
	defer s.lock.Release(1)

	started := s.now()
	if next := s.NextRefresh(); started.Before(next) {
		metrics.RefreshesTotal.WithLabelValues("cooldown").Inc()
		return nil, &CooldownError{Remaining: next.Sub(started)}
	}

	log.WithField("guildID", s.config.GuildID).Info("Starting leaderboard refresh")

	players, failures, err := s.fetchPlayers(ctx)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	snapshot := s.build(players, started)
	s.snapshot.Store(snapshot)
	s.lastRefresh.Store(&started)

	duration := s.now().Sub(started)
	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	metrics.RefreshDuration.Observe(duration.Seconds())
	metrics.RankedPlayers.Set(float64(snapshot.Players()))

	log.WithFields(log.Fields{
		"players":  snapshot.Players(),
		"failures": failures,
		"duration": duration,
	}).Info("Leaderboard refresh complete")

	if s.publisher != nil {
		s.publisher.Publish(events.LeaderboardsRefreshedEvent{
			Players:  snapshot.Players(),
			Failures: failures,
			Boards:   len(snapshot.Boards),
			Duration: duration,
		})
	}

	return &RefreshResult{
		Snapshot: snapshot,
		Players:  snapshot.Players(),
		Failures: failures,
		Duration: duration,
	}, nil
}

// fetchPlayers returns the fetched players in roster order with nil gaps for members
// whose stats could not be fetched
func (s *leaderboardService) fetchPlayers(ctx context.Context) ([]*leaderboard.Player, int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}
	guild, err := s.source.FetchGuild(ctx, s.config.GuildID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch guild roster: %w", err)
	}

	players := make([]*leaderboard.Player, len(guild.Members))
	var failures atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, member := range guild.Members {
		if gctx.Err() != nil {
			break
		}
		i, member := i, member
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			doc, err := s.source.FetchPlayer(gctx, member.UUID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.WithFields(log.Fields{
					"uuid":  member.UUID,
					"error": err,
				}).Warn("Omitting player from leaderboards")
				metrics.PlayerFetchFailures.Inc()
				failures.Add(1)
				return nil
			}
			players[i] = &leaderboard.Player{Doc: doc, Member: member}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	// every fetch failing on a larger roster means the stat source is down; publishing
	// would replace the boards with empty ones
	if len(players) > 1 && int(failures.Load()) == len(players) {
		return nil, 0, fmt.Errorf("failed to fetch any of %d roster members", len(players))
	}
	return players, int(failures.Load()), nil
}

// build enters every player into fresh engines, then computes aggregate boards once every
// base board's rankings are in the rollup
func (s *leaderboardService) build(players []*leaderboard.Player, generatedAt time.Time) *Snapshot {
	engines := make([]*leaderboard.Engine, len(s.definitions))
	for i, def := range s.definitions {
		engines[i] = leaderboard.NewEngine(def)
	}

	rollup := leaderboard.NewRollup()
	for _, player := range players {
		if player == nil {
			continue
		}
		rollup.Add(player.Name())
		for _, engine := range engines {
			if !engine.Definition().Aggregate {
				engine.EnterPlayer(*player)
			}
		}
	}

	for _, engine := range engines {
		if !engine.Definition().Aggregate {
			rollup.Merge(engine.GenerateRankings())
		}
	}
	var aggregates []*leaderboard.Engine
	for _, engine := range engines {
		if engine.Definition().Aggregate {
			leaderboard.ComputeAveragePositions(engine, rollup)
			aggregates = append(aggregates, engine)
		}
	}
	for _, engine := range aggregates {
		rollup.Merge(engine.GenerateRankings())
	}

	return &Snapshot{Boards: engines, Rollup: rollup, GeneratedAt: generatedAt}
}

// Recover rebuilds rankings from published boards, in the order they were published.
// Only the first board introduces players; later boards rank only players it introduced.
func (s *leaderboardService) Recover(ctx context.Context, boards []PublishedBoard) (*RecoveryResult, error) {
	if len(boards) == 0 {
		return nil, ErrRecoveryUnavailable
	}
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.lock.Release(1)

	engines := make([]*leaderboard.Engine, len(s.definitions))
	for i, def := range s.definitions {
		engines[i] = leaderboard.NewEngine(def)
	}

	rollup := leaderboard.NewRollup()
	result := &RecoveryResult{}
	for _, board := range boards {
		engine := findEngine(engines, board.Title, board.Stat)
		if engine == nil {
			result.Unmatched = append(result.Unmatched, board.Title)
			log.WithFields(log.Fields{
				"title": board.Title,
				"stat":  board.Stat,
			}).Warn("Published board matches no leaderboard definition")
			continue
		}

		recovery := engine.RebuildFromPersistedPages(board.Pages, rollup, result.Boards == 0)
		result.Boards++
		result.Skipped += recovery.Skipped
		if recovery.Skipped > 0 {
			metrics.RecoverySkippedLines.Add(float64(recovery.Skipped))
			log.WithFields(log.Fields{
				"board":   engine.Definition().Name(),
				"skipped": recovery.Skipped,
			}).Warn("Skipped malformed leaderboard lines")
		}
	}
	if result.Boards == 0 {
		return nil, ErrRecoveryUnavailable
	}
	result.Players = rollup.Len()

	s.snapshot.Store(&Snapshot{Boards: engines, Rollup: rollup, GeneratedAt: s.now(), Recovered: true})
	metrics.RankedPlayers.Set(float64(result.Players))

	log.WithFields(log.Fields{
		"boards":  result.Boards,
		"players": result.Players,
		"skipped": result.Skipped,
	}).Info("Recovered leaderboard rankings")
	return result, nil
}

func findEngine(engines []*leaderboard.Engine, title, stat string) *leaderboard.Engine {
	for _, engine := range engines {
		if engine.Definition().Matches(title, stat) {
			return engine
		}
	}
	return nil
}

// memberByUUID finds a roster entry
func memberByUUID(guild *hypixel.Guild, uuid string) (hypixel.Member, bool) {
	for _, member := range guild.Members {
		if member.UUID == uuid {
			return member, true
		}
	}
	return hypixel.Member{}, false
}
