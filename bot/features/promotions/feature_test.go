package promotions

import (
	"testing"
	"time"

	"heinzbottle/bot/common"
	"heinzbottle/models"
	"heinzbottle/promotion"

	"github.com/stretchr/testify/assert"
)

func TestReportEmbed(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		report    *promotion.Report
		wantColor int
	}{
		{
			name:      "empty",
			report:    promotion.NewReport(now),
			wantColor: common.ColorGreen,
		},
		{
			name: "promotable now",
			report: &promotion.Report{
				GeneratedAt: now,
				Now:         []promotion.Entry{{Name: "Alpha", Rank: models.RankScout}},
				Soon:        []promotion.Entry{{Name: "Bravo", Rank: models.RankScout, Days: 12}},
			},
			wantColor: common.ColorPurple,
		},
		{
			name: "upcoming only",
			report: &promotion.Report{
				GeneratedAt: now,
				VerySoon:    []promotion.Entry{{Name: "Bravo", Rank: models.RankLieutenant, At: now.Add(48 * time.Hour)}},
			},
			wantColor: common.ColorOrange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := ReportEmbed(tt.report)
			assert.Equal(t, EmbedTitle, embed.Title)
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Equal(t, tt.report.Description(), embed.Description)
			assert.Equal(t, "2024-06-01T12:00:00Z", embed.Timestamp)
		})
	}
}

func TestReportEmbed_EmptyMessage(t *testing.T) {
	embed := ReportEmbed(promotion.NewReport(time.Now()))
	assert.Equal(t, promotion.NoPromotionsMessage, embed.Description)
}
