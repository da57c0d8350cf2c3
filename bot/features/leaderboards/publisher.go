package leaderboards

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"heinzbottle/bot/common"
	"heinzbottle/leaderboard"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// messageBatch is the most messages Discord returns per history request
const messageBatch = 100

// threadArchiveMinutes is how long an idle board thread stays visible
const threadArchiveMinutes = 10080

// FinishedMessage is posted after every board has been published
const FinishedMessage = "The leaderboards are finished updating."

// ErrRecoveredSnapshot is returned when publishing a snapshot rebuilt from published pages.
// Its boards hold no scores, so publishing it would replace every board with an empty one.
var ErrRecoveredSnapshot = errors.New("recovered snapshots cannot be published")

// Channel is the subset of the Discord session used to publish and read back boards
type Channel interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	MessageThreadStart(channelID, messageID string, name string, archiveDuration int, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Publisher writes boards to the leaderboards channel as a header message per board with a
// thread holding its pages, and reads them back for recovery
type Publisher struct {
	channel   Channel
	channelID string
	pace      *rate.Limiter
}

// NewPublisher creates a publisher. pace spaces out Discord writes; nil means unpaced.
func NewPublisher(channel Channel, channelID string, pace *rate.Limiter) *Publisher {
	if pace == nil {
		pace = rate.NewLimiter(rate.Inf, 1)
	}
	return &Publisher{channel: channel, channelID: channelID, pace: pace}
}

// HeaderEmbed is the message a board's thread hangs off
func HeaderEmbed(def leaderboard.Definition) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       def.Title,
		Description: def.Stat,
		Color:       def.Color,
	}
}

// PageEmbeds renders a board's pages
func PageEmbeds(board *leaderboard.Engine) []*discordgo.MessageEmbed {
	pages := board.GenerateDisplayPages(leaderboard.DefaultPageSize)
	embeds := make([]*discordgo.MessageEmbed, len(pages))
	for i, page := range pages {
		embeds[i] = &discordgo.MessageEmbed{Description: page}
		if board.Len() > 0 {
			embeds[i].Color = board.Definition().Color
		}
	}
	return embeds
}

// Wipe deletes the channel's recent messages and their threads
func (p *Publisher) Wipe(ctx context.Context) error {
	messages, err := p.channel.ChannelMessages(p.channelID, messageBatch, "", "", "")
	if err != nil {
		return fmt.Errorf("failed to list leaderboard messages: %w", err)
	}
	for _, message := range messages {
		if message.Thread != nil {
			if err := p.pace.Wait(ctx); err != nil {
				return err
			}
			if _, err := p.channel.ChannelDelete(message.Thread.ID); err != nil {
				log.WithFields(log.Fields{
					"threadID": message.Thread.ID,
					"error":    err,
				}).Warn("Failed to delete leaderboard thread")
			}
		}
		if err := p.pace.Wait(ctx); err != nil {
			return err
		}
		if err := p.channel.ChannelMessageDelete(p.channelID, message.ID); err != nil {
			log.WithFields(log.Fields{
				"messageID": message.ID,
				"error":     err,
			}).Warn("Failed to delete leaderboard message")
		}
	}
	return nil
}

// Publish posts every board of the snapshot followed by the finished notice
func (p *Publisher) Publish(ctx context.Context, snapshot *service.Snapshot) error {
	if snapshot.Recovered {
		return ErrRecoveredSnapshot
	}
	for _, board := range snapshot.Boards {
		def := board.Definition()
		if err := p.pace.Wait(ctx); err != nil {
			return err
		}
		header, err := p.channel.ChannelMessageSendEmbed(p.channelID, HeaderEmbed(def))
		if err != nil {
			return fmt.Errorf("failed to post header for %s: %w", def.Name(), err)
		}

		if err := p.pace.Wait(ctx); err != nil {
			return err
		}
		thread, err := p.channel.MessageThreadStart(p.channelID, header.ID, def.Name(), threadArchiveMinutes)
		if err != nil {
			return fmt.Errorf("failed to start thread for %s: %w", def.Name(), err)
		}

		for _, page := range PageEmbeds(board) {
			if err := p.pace.Wait(ctx); err != nil {
				return err
			}
			if _, err := p.channel.ChannelMessageSendEmbed(thread.ID, page); err != nil {
				return fmt.Errorf("failed to post page for %s: %w", def.Name(), err)
			}
		}
	}

	if err := p.pace.Wait(ctx); err != nil {
		return err
	}
	_, err := p.channel.ChannelMessageSendEmbed(p.channelID, &discordgo.MessageEmbed{
		Description: FinishedMessage,
		Color:       common.ColorGreen,
		Timestamp:   snapshot.GeneratedAt.Format(time.RFC3339),
	})
	return err
}

// ReadPublished reads the boards back in the order they were posted. Messages without an
// embed or a thread are ignored.
func (p *Publisher) ReadPublished(ctx context.Context) ([]service.PublishedBoard, error) {
	messages, err := p.channel.ChannelMessages(p.channelID, messageBatch, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard messages: %w", err)
	}
	// history is returned newest first
	slices.Reverse(messages)

	var boards []service.PublishedBoard
	for _, message := range messages {
		if len(message.Embeds) == 0 || message.Thread == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		header := message.Embeds[0]
		pages, err := p.readPages(message.Thread.ID)
		if err != nil {
			return nil, err
		}
		boards = append(boards, service.PublishedBoard{
			Title: header.Title,
			Stat:  header.Description,
			Pages: pages,
		})
	}
	return boards, nil
}

func (p *Publisher) readPages(threadID string) ([]string, error) {
	messages, err := p.channel.ChannelMessages(threadID, messageBatch, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to read thread %s: %w", threadID, err)
	}
	slices.Reverse(messages)

	var pages []string
	for _, message := range messages {
		if len(message.Embeds) == 0 {
			continue
		}
		pages = append(pages, message.Embeds[0].Description)
	}
	return pages, nil
}
