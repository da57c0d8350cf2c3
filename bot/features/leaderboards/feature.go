package leaderboards

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"heinzbottle/bot/common"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles publishing and recovering the guild leaderboards
type Feature struct {
	service   service.LeaderboardService
	publisher *Publisher
}

// NewFeature creates a new leaderboards feature instance
func NewFeature(leaderboardService service.LeaderboardService, publisher *Publisher) *Feature {
	return &Feature{
		service:   leaderboardService,
		publisher: publisher,
	}
}

// HandleUpdate handles /update-leaderboards. The refresh and publishing run in the background
// after the interaction has been answered.
func (f *Feature) HandleUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring update-leaderboards response: %v", err)
		return
	}

	if next := f.service.NextRefresh(); time.Now().Before(next) {
		common.EditWithNotice(s, i, CooldownMessage(time.Until(next)))
		return
	}

	common.EditWithEmbed(s, i, &discordgo.MessageEmbed{
		Description: "The leaderboards are now updating! The process should be complete in a few minutes.",
		Color:       common.ColorGreen,
	})

	go f.update(s, i)
}

func (f *Feature) update(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	result, err := f.service.Refresh(ctx)
	var cooldown *service.CooldownError
	switch {
	case errors.Is(err, service.ErrRefreshInProgress):
		common.EditWithEmbed(s, i, &discordgo.MessageEmbed{
			Description: "The leaderboards are already in the process of updating!",
			Color:       common.ColorRed,
		})
		return
	case errors.As(err, &cooldown):
		common.EditWithNotice(s, i, CooldownMessage(cooldown.Remaining))
		return
	case err != nil:
		log.WithError(err).Error("Leaderboard refresh failed")
		common.EditWithNotice(s, i, "The leaderboards could not be updated: the guild roster is unavailable.")
		return
	}

	if err := f.publisher.Wipe(ctx); err != nil {
		log.WithError(err).Error("Failed to wipe leaderboards channel")
		return
	}
	if err := f.publisher.Publish(ctx, result.Snapshot); err != nil {
		log.WithError(err).Error("Failed to publish leaderboards")
		return
	}
	log.WithField("boards", len(result.Snapshot.Boards)).Info("Published leaderboards")
}

// HandleRecover handles /recover-rankings
func (f *Feature) HandleRecover(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring recover-rankings response: %v", err)
		return
	}

	result, err := f.Recover(context.Background())
	switch {
	case errors.Is(err, service.ErrRecoveryUnavailable):
		common.EditWithNotice(s, i, "There are no published leaderboards to recover rankings from.")
		return
	case errors.Is(err, service.ErrRefreshInProgress):
		common.EditWithNotice(s, i, "The leaderboards are currently updating. Try again once they are finished.")
		return
	case err != nil:
		log.WithError(err).Error("Ranking recovery failed")
		common.EditWithNotice(s, i, common.GenericFailure)
		return
	}

	common.EditWithEmbed(s, i, &discordgo.MessageEmbed{
		Description: RecoveryMessage(result),
		Color:       common.ColorGreen,
	})
}

// Recover rebuilds the rankings from the boards published in the leaderboards channel
func (f *Feature) Recover(ctx context.Context) (*service.RecoveryResult, error) {
	boards, err := f.publisher.ReadPublished(ctx)
	if err != nil {
		return nil, err
	}
	return f.service.Recover(ctx, boards)
}

// CooldownMessage tells the user how long until the leaderboards can be refreshed again
func CooldownMessage(remaining time.Duration) string {
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("The leaderboards were updated recently. Try again in %d minute(s).", minutes)
}

// RecoveryMessage summarizes a recovery
func RecoveryMessage(result *service.RecoveryResult) string {
	message := fmt.Sprintf("Recovered rankings for %d players from %d leaderboards.", result.Players, result.Boards)
	if result.Skipped > 0 {
		message += fmt.Sprintf(" %d unreadable lines were skipped.", result.Skipped)
	}
	if len(result.Unmatched) > 0 {
		message += fmt.Sprintf(" %d published boards are no longer tracked.", len(result.Unmatched))
	}
	return message
}
