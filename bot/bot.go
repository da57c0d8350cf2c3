package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"heinzbottle/bot/common"
	"heinzbottle/bot/features/leaderboards"
	"heinzbottle/bot/features/members"
	"heinzbottle/bot/features/promotions"
	"heinzbottle/events"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// publishInterval spaces out the Discord writes made while publishing leaderboards
const publishInterval = 250 * time.Millisecond

// Config holds bot configuration
type Config struct {
	GuildID               string
	LeaderboardsChannelID string
	LogChannelID          string // empty disables the event log
	RequirementRoles      map[string]string
}

type Bot struct {
	config       Config
	session      *discordgo.Session
	leaderboards *leaderboards.Feature
	promotions   *promotions.Feature
	members      *members.Feature
}

// NewSession creates and opens a Discord session
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}
	return dg, nil
}

// New wires the features onto an open session and registers the slash commands
func New(config Config, session *discordgo.Session, leaderboardService service.LeaderboardService, promotionService service.PromotionService, memberService service.MemberService, eventBus *events.Bus) (*Bot, error) {
	publisher := leaderboards.NewPublisher(session, config.LeaderboardsChannelID, rate.NewLimiter(rate.Every(publishInterval), 1))

	bot := &Bot{
		config:       config,
		session:      session,
		leaderboards: leaderboards.NewFeature(leaderboardService, publisher),
		promotions:   promotions.NewFeature(promotionService),
		members:      members.NewFeature(memberService, session, config.GuildID, config.RequirementRoles),
	}

	// Register slash command handlers
	session.AddHandler(bot.handleCommands)

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.LogChannelID != "" {
		bot.subscribeEventLog(eventBus)
		log.Info("Event log channel enabled")
	}

	return bot, nil
}

// RecoverRankings rebuilds the rankings from the leaderboards channel. Having nothing
// published yet is not an error.
func (b *Bot) RecoverRankings(ctx context.Context) error {
	if b.config.LeaderboardsChannelID == "" {
		return nil
	}
	result, err := b.leaderboards.Recover(ctx)
	if errors.Is(err, service.ErrRecoveryUnavailable) {
		log.Info("No published leaderboards to recover rankings from")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to recover rankings: %w", err)
	}
	log.WithFields(log.Fields{
		"boards":  result.Boards,
		"players": result.Players,
		"skipped": result.Skipped,
	}).Info("Recovered rankings from published leaderboards")
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// subscribeEventLog posts standing changes, links and refreshes to the log channel
func (b *Bot) subscribeEventLog(eventBus *events.Bus) {
	post := func(ctx context.Context, event events.Event) {
		embed := EventEmbed(event)
		if embed == nil {
			return
		}
		if _, err := b.session.ChannelMessageSendEmbed(b.config.LogChannelID, embed); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Warn("Failed to post event to log channel")
		}
	}
	eventBus.Subscribe(events.EventTypeStandingChanged, post)
	eventBus.Subscribe(events.EventTypeUserLinked, post)
	eventBus.Subscribe(events.EventTypeLeaderboardsRefreshed, post)
}

// EventEmbed renders an event for the log channel; unknown events render nil
func EventEmbed(event events.Event) *discordgo.MessageEmbed {
	switch e := event.(type) {
	case events.StandingChangedEvent:
		return &discordgo.MessageEmbed{
			Title:       "Highest Rank Raised",
			Description: fmt.Sprintf("%s went from **%s** to **%s**.", common.UserMention(e.DiscordID), e.OldRank, e.NewRank),
			Color:       common.ColorPurple,
		}
	case events.UserLinkedEvent:
		return &discordgo.MessageEmbed{
			Title:       "Account Linked",
			Description: fmt.Sprintf("%s was linked to **%s**.", common.UserMention(e.DiscordID), common.EscapeName(e.Username)),
			Color:       common.ColorBlue,
		}
	case events.LeaderboardsRefreshedEvent:
		return &discordgo.MessageEmbed{
			Title: "Leaderboards Refreshed",
			Description: fmt.Sprintf("%d boards from %d players in %s. %d players could not be fetched.",
				e.Boards, e.Players, e.Duration.Round(time.Second), e.Failures),
			Color: common.ColorGreen,
		}
	default:
		return nil
	}
}
