package promotions

import (
	"context"
	"time"

	"heinzbottle/bot/common"
	"heinzbottle/promotion"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// EmbedTitle is the title of the promotions report
const EmbedTitle = "Promotions Evaluation"

// Feature handles the promotions report
type Feature struct {
	service service.PromotionService
}

// NewFeature creates a new promotions feature instance
func NewFeature(promotionService service.PromotionService) *Feature {
	return &Feature{service: promotionService}
}

// HandleCommand handles /promotions
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring promotions response: %v", err)
		return
	}

	report, err := f.service.Report(context.Background())
	if err != nil {
		log.WithError(err).Error("Promotions evaluation failed")
		common.EditWithNotice(s, i, "The guild roster could not be retrieved. Try again later.")
		return
	}
	common.EditWithEmbed(s, i, ReportEmbed(report))
}

// ReportEmbed renders a promotions report. Purple means someone can be promoted now,
// orange means promotions are only upcoming and green means nothing is due.
func ReportEmbed(report *promotion.Report) *discordgo.MessageEmbed {
	color := common.ColorGreen
	switch {
	case len(report.Now) > 0:
		color = common.ColorPurple
	case !report.Empty():
		color = common.ColorOrange
	}
	return &discordgo.MessageEmbed{
		Title:       EmbedTitle,
		Description: report.Description(),
		Color:       color,
		Timestamp:   report.GeneratedAt.Format(time.RFC3339),
	}
}
