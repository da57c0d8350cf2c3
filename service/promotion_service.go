package service

import (
	"context"
	"fmt"
	"time"

	"heinzbottle/hypixel"
	"heinzbottle/metrics"
	"heinzbottle/models"
	"heinzbottle/promotion"
	"heinzbottle/requirements"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// promotionService implements the PromotionService interface
type promotionService struct {
	source     StatSource
	limiter    Limiter
	uowFactory UnitOfWorkFactory
	rules      *requirements.RuleSet
	guildID    string
	workers    int
	now        func() time.Time
}

// NewPromotionService creates a new promotion service
func NewPromotionService(source StatSource, limiter Limiter, uowFactory UnitOfWorkFactory, rules *requirements.RuleSet, guildID string, workers int) PromotionService {
	if workers < 1 {
		workers = 1
	}
	return &promotionService{
		source:     source,
		limiter:    limiter,
		uowFactory: uowFactory,
		rules:      rules,
		guildID:    guildID,
		workers:    workers,
		now:        time.Now,
	}
}

type promotionCandidate struct {
	member hypixel.Member
	rank   models.Rank
}

type evaluatedMember struct {
	name    string
	outlook promotion.Outlook
}

// Report evaluates every member below Veteran and buckets their promotions
func (s *promotionService) Report(ctx context.Context) (*promotion.Report, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	guild, err := s.source.FetchGuild(ctx, s.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roster: %w", err)
	}

	var candidates []promotionCandidate
	for _, member := range guild.Members {
		rank, ok := models.ParseRank(member.Rank)
		if !ok || rank == models.RankVeteran {
			continue
		}
		candidates = append(candidates, promotionCandidate{member: member, rank: rank})
	}

	now := s.now()
	results := make([]*evaluatedMember, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, candidate := range candidates {
		if gctx.Err() != nil {
			break
		}
		i, candidate := i, candidate
		g.Go(func() error {
			result, err := s.evaluate(gctx, candidate, now)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := promotion.NewReport(now)
	for _, result := range results {
		if result != nil {
			report.Add(result.name, result.outlook)
		}
	}
	report.Sort()

	metrics.PromotionReports.WithLabelValues("now").Add(float64(len(report.Now)))
	metrics.PromotionReports.WithLabelValues("very_soon").Add(float64(len(report.VerySoon)))
	metrics.PromotionReports.WithLabelValues("soon").Add(float64(len(report.Soon)))
	return report, nil
}

// evaluate returns nil for members that are skipped
func (s *promotionService) evaluate(ctx context.Context, candidate promotionCandidate, now time.Time) (*evaluatedMember, error) {
	tenure, ok := promotion.TimeSince(candidate.member.Joined, now)
	if !ok {
		log.WithFields(log.Fields{
			"uuid":   candidate.member.UUID,
			"joined": candidate.member.Joined,
		}).Warn("Missing or nonsensical join date, skipping promotion evaluation")
		return nil, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	doc, err := s.source.FetchPlayer(ctx, candidate.member.UUID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithFields(log.Fields{
			"uuid":  candidate.member.UUID,
			"error": err,
		}).Warn("Ignoring player in promotions evaluation")
		metrics.PlayerFetchFailures.Inc()
		return nil, nil
	}

	previousHighest, err := s.previousHighestRank(ctx, candidate.member.UUID)
	if err != nil {
		return nil, err
	}

	return &evaluatedMember{
		name:    hypixel.DisplayName(doc),
		outlook: promotion.Evaluate(doc, tenure, candidate.rank, previousHighest, s.rules),
	}, nil
}

func (s *promotionService) previousHighestRank(ctx context.Context, uuid string) (models.Rank, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.RankNone, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByMinecraftUUID(ctx, uuid)
	if err != nil {
		return models.RankNone, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return models.RankNone, nil
	}
	return user.Standing.HighestRank, nil
}
