package cmd

import (
	"context"
	"fmt"
	"time"

	"heinzbottle/api"
	"heinzbottle/bot"
	"heinzbottle/bot/features/members"
	"heinzbottle/config"
	"heinzbottle/database"
	"heinzbottle/events"
	"heinzbottle/hypixel"
	"heinzbottle/leaderboard"
	"heinzbottle/repository"
	"heinzbottle/requirements"
	"heinzbottle/service"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// cacheSweepInterval is how often the in-process cache drops expired responses
const cacheSweepInterval = 5 * time.Minute

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	log.Info("Starting HeinzBOTtle...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize Hypixel client
	log.Info("Initializing Hypixel client...")
	cache, closeCache := newCache(ctx, cfg)
	defer closeCache()
	client := hypixel.NewClient(hypixel.ClientConfig{
		BaseURL:  cfg.HypixelBaseURL,
		APIKey:   cfg.HypixelAPIKey,
		Timeout:  cfg.RequestTimeout,
		CacheTTL: cfg.CacheTTL,
	}, cache)
	limiter := rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	log.Info("Hypixel client initialized successfully")

	// Initialize Discord session; requirement roles are looked up by name once connected
	log.Info("Connecting to Discord...")
	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to connect to Discord: %w", err)
	}
	rules := requirements.Default()
	guildRoles, err := session.GuildRoles(cfg.GuildID)
	if err != nil {
		session.Close()
		return fmt.Errorf("failed to fetch guild roles: %w", err)
	}
	requirementRoles := members.RequirementRoles(guildRoles, rules)
	log.WithField("requirementRoles", len(requirementRoles)).Info("Discord session established successfully")

	// Initialize services
	log.Info("Initializing services...")
	leaderboardService := service.NewLeaderboardService(client, limiter, eventBus, leaderboard.DefaultDefinitions(rules), service.LeaderboardConfig{
		GuildID:  cfg.HypixelGuildID,
		Workers:  cfg.RefreshWorkers,
		Cooldown: cfg.RefreshCooldown,
	})
	promotionService := service.NewPromotionService(client, limiter, uowFactory, rules, cfg.HypixelGuildID, cfg.RefreshWorkers)
	memberService := service.NewMemberService(client, limiter, uowFactory, leaderboardService, rules, service.RoleConfig{
		GuildMember:   cfg.GuildMemberRoleID,
		Guest:         cfg.GuestRoleID,
		HonoraryQuest: cfg.HonoraryQuestRoleID,
		Treehard:      cfg.TreehardRoleID,
		TreehardPlus:  cfg.TreehardPlusRoleID,
		Challenger:    cfg.ChallengerRoleID,
		Leaderboarder: cfg.LeaderboarderRoleID,
		Requirements:  requirementRoles,
	}, cfg.HypixelGuildID)
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		GuildID:               cfg.GuildID,
		LeaderboardsChannelID: cfg.LeaderboardsChannelID,
		LogChannelID:          cfg.LogChannelID,
		RequirementRoles:      requirementRoles,
	}, session, leaderboardService, promotionService, memberService, eventBus)
	if err != nil {
		session.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Rankings survive restarts through the published leaderboards
	go func() {
		if err := discordBot.RecoverRankings(ctx); err != nil {
			log.Errorf("Startup ranking recovery failed: %v", err)
		}
	}()

	// Initialize status API
	var server *api.Server
	if cfg.MetricsAddr != "" {
		server = api.NewServer(cfg.MetricsAddr, api.NewHandler(leaderboardService, db))
		server.Start()
	}

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error stopping status API: %v", err)
		}
	}

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}

// newCache picks Redis when configured and the in-process cache otherwise
func newCache(ctx context.Context, cfg *config.Config) (hypixel.Cache, func()) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithFields(log.Fields{
				"addr":  cfg.RedisAddr,
				"error": err,
			}).Warn("Redis unreachable, falling back to in-process cache")
			client.Close()
		} else {
			log.WithField("addr", cfg.RedisAddr).Info("Using Redis response cache")
			return hypixel.NewRedisCache(client), func() { client.Close() }
		}
	}

	cache := hypixel.NewMemoryCache()
	cache.StartJanitor(ctx, cacheSweepInterval)
	return cache, func() {}
}
