package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	RefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heinzbottle_leaderboard_refreshes_total",
		Help: "Leaderboard refresh attempts by result",
	}, []string{"result"})

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "heinzbottle_leaderboard_refresh_duration_seconds",
		Help:    "Duration of completed leaderboard refreshes",
		Buckets: []float64{30, 60, 120, 300, 600, 1200, 1800},
	})

	PlayerFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heinzbottle_player_fetch_failures_total",
		Help: "Players omitted from a refresh or report because their stats could not be fetched",
	})

	RankedPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "heinzbottle_ranked_players",
		Help: "Players present in the currently published leaderboards",
	})

	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heinzbottle_hypixel_requests_total",
		Help: "Requests made to the Hypixel API by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heinzbottle_hypixel_cache_lookups_total",
		Help: "Hypixel response cache lookups by result",
	}, []string{"result"})

	RecoverySkippedLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heinzbottle_recovery_skipped_lines_total",
		Help: "Malformed lines skipped while rebuilding rankings from published pages",
	})

	PromotionReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heinzbottle_promotion_report_entries_total",
		Help: "Entries produced by promotion reports by bucket",
	}, []string{"bucket"})
)
