package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heinzbottle/events"
	"heinzbottle/hypixel"
	"heinzbottle/models"
	"heinzbottle/promotion"
	"heinzbottle/requirements"
	"heinzbottle/statdoc"

	log "github.com/sirupsen/logrus"
)

// LinkResult is the outcome of linking a Minecraft account
type LinkResult struct {
	User      *models.User
	Username  string
	Enrolled  bool // a new user record was created
	Unchanged bool // the account was already linked to the same Discord user
}

// SyncResult is the outcome of a member sync
type SyncResult struct {
	User          *models.User
	Username      string
	IsGuildMember bool
	OldRank       models.Rank
	NewRank       models.Rank
	BestPosition  int
	Roles         RoleChanges
}

// RankChanged reports whether the sync raised the recorded highest rank
func (r *SyncResult) RankChanged() bool {
	return r.NewRank > r.OldRank
}

// RequirementsResult lists the requirements a player meets and misses
type RequirementsResult struct {
	Username       string
	UUID           string
	Level          float64
	Met            []requirements.Requirement
	Unmet          []requirements.Requirement
	SignatureColor *int
}

// MeetsGuildRequirements reports whether the player could join the guild
func (r *RequirementsResult) MeetsGuildRequirements() bool {
	return int(r.Level) >= promotion.MemberMinLevel && len(r.Met) >= promotion.MemberMinRequirements
}

// UserInfo summarizes an enrolled user
type UserInfo struct {
	User         *models.User
	Username     string // empty when no Minecraft account is linked
	BestPosition int    // zero when unranked
}

// memberService implements the MemberService interface
type memberService struct {
	source       StatSource
	limiter      Limiter
	uowFactory   UnitOfWorkFactory
	leaderboards LeaderboardService
	rules        *requirements.RuleSet
	roles        RoleConfig
	guildID      string
	now          func() time.Time
}

// NewMemberService creates a new member service
func NewMemberService(source StatSource, limiter Limiter, uowFactory UnitOfWorkFactory, leaderboards LeaderboardService, rules *requirements.RuleSet, roles RoleConfig, guildID string) MemberService {
	return &memberService{
		source:       source,
		limiter:      limiter,
		uowFactory:   uowFactory,
		leaderboards: leaderboards,
		rules:        rules,
		roles:        roles,
		guildID:      guildID,
		now:          time.Now,
	}
}

func (s *memberService) fetchPlayer(ctx context.Context, uuid string) (*statdoc.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.source.FetchPlayer(ctx, uuid)
}

func (s *memberService) fetchPlayerByName(ctx context.Context, username string) (*statdoc.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.source.FetchPlayerByName(ctx, username)
}

func (s *memberService) fetchGuild(ctx context.Context) (*hypixel.Guild, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.source.FetchGuild(ctx, s.guildID)
}

func (s *memberService) bestPosition(username string) int {
	if s.leaderboards == nil {
		return 0
	}
	position, _ := s.leaderboards.Snapshot().BestPosition(username)
	return position
}

func playerUUID(doc *statdoc.Document) (string, error) {
	raw, _ := doc.String("player.uuid")
	uuid, err := hypixel.NormalizeUUID(raw)
	if err != nil {
		return "", fmt.Errorf("player document has no usable uuid: %w", err)
	}
	return uuid, nil
}

// Link enrolls the Discord user if needed and links the Minecraft account named username
func (s *memberService) Link(ctx context.Context, discordID int64, username string) (*LinkResult, error) {
	doc, err := s.fetchPlayerByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player %q: %w", username, err)
	}
	uuid, err := playerUUID(doc)
	if err != nil {
		return nil, err
	}
	displayName := hypixel.DisplayName(doc)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	holder, err := users.GetByMinecraftUUID(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("failed to look up minecraft account: %w", err)
	}
	if holder != nil {
		if holder.DiscordID != nil && *holder.DiscordID == discordID {
			return &LinkResult{User: holder, Username: displayName, Unchanged: true}, nil
		}
		return nil, &LinkedElsewhereError{Username: displayName, DiscordID: holder.DiscordID}
	}

	result := &LinkResult{Username: displayName}
	user, err := users.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		user, err = users.Create(ctx, &discordID, &uuid)
		if err != nil {
			return nil, fmt.Errorf("failed to enroll user: %w", err)
		}
		result.Enrolled = true
	} else {
		user, err = users.LinkMinecraft(ctx, user.ID, uuid)
		if err != nil {
			return nil, fmt.Errorf("failed to link minecraft account: %w", err)
		}
	}
	result.User = user

	uow.EventBus().Publish(events.UserLinkedEvent{
		UserID:        user.ID,
		DiscordID:     discordID,
		MinecraftUUID: uuid,
		Username:      displayName,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"discordID": discordID,
		"uuid":      uuid,
		"username":  displayName,
		"enrolled":  result.Enrolled,
	}).Info("Linked minecraft account")
	return result, nil
}

// Sync recomputes a user's highest rank and the roles their Discord account should hold.
// The highest rank is the greatest of the stored one, the in-game one and the best rank the
// player is eligible for. It is never lowered.
func (s *memberService) Sync(ctx context.Context, discordID int64, currentRoles []string) (*SyncResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	user, err := users.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotEnrolled
	}
	if user.MinecraftUUID == nil {
		return nil, ErrMinecraftNotLinked
	}
	uuid := *user.MinecraftUUID

	guild, err := s.fetchGuild(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roster: %w", err)
	}
	doc, err := s.fetchPlayer(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player %s: %w", uuid, err)
	}
	username := hypixel.DisplayName(doc)

	standing := s.roles.StandingFromRoles(user.Standing, currentRoles)
	oldRank := user.Standing.HighestRank

	member, isMember := memberByUUID(guild, uuid)
	if isMember {
		if inGame, ok := models.ParseRank(member.Rank); ok {
			standing.RaiseHighestRank(inGame)
		}
		if tenure, ok := promotion.TimeSince(member.Joined, s.now()); ok {
			standing.RaiseHighestRank(promotion.FindBestEligibleRank(doc, tenure, oldRank, s.rules))
		} else {
			log.WithFields(log.Fields{
				"uuid":   uuid,
				"joined": member.Joined,
			}).Warn("Missing or nonsensical join date, skipping eligibility check")
		}
	}

	if standing != user.Standing {
		user, err = users.UpdateStanding(ctx, user.ID, standing)
		if err != nil {
			return nil, fmt.Errorf("failed to update standing: %w", err)
		}
	}

	result := &SyncResult{
		User:          user,
		Username:      username,
		IsGuildMember: isMember,
		OldRank:       oldRank,
		NewRank:       user.Standing.HighestRank,
		BestPosition:  s.bestPosition(username),
	}
	result.Roles = s.roles.PlanRoles(RoleState{
		IsGuildMember: isMember,
		Met:           s.rules.Met(doc),
		Standing:      user.Standing,
		BestPosition:  result.BestPosition,
	}, currentRoles)

	if result.RankChanged() {
		uow.EventBus().Publish(events.StandingChangedEvent{
			UserID:        user.ID,
			DiscordID:     discordID,
			MinecraftUUID: uuid,
			OldRank:       result.OldRank,
			NewRank:       result.NewRank,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"discordID": discordID,
		"username":  username,
		"oldRank":   result.OldRank,
		"newRank":   result.NewRank,
		"add":       len(result.Roles.Add),
		"remove":    len(result.Roles.Remove),
	}).Info("Synced member")
	return result, nil
}

// Requirements reports which requirements a player meets
func (s *memberService) Requirements(ctx context.Context, discordID int64, username string) (*RequirementsResult, error) {
	var (
		doc *statdoc.Document
		err error
	)
	if username == "" {
		user, err := s.lookupUser(ctx, discordID)
		if err != nil {
			return nil, err
		}
		if user.MinecraftUUID == nil {
			return nil, ErrMinecraftNotLinked
		}
		doc, err = s.fetchPlayer(ctx, *user.MinecraftUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch player: %w", err)
		}
	} else {
		doc, err = s.fetchPlayerByName(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch player %q: %w", username, err)
		}
	}

	result := &RequirementsResult{
		Username: hypixel.DisplayName(doc),
		Level:    hypixel.PlayerLevel(doc),
	}
	for _, r := range s.rules.All() {
		if r.Met(doc) {
			result.Met = append(result.Met, r)
		} else {
			result.Unmet = append(result.Unmet, r)
		}
	}

	if uuid, err := playerUUID(doc); err == nil {
		result.UUID = uuid
		holder, err := s.lookupByUUID(ctx, uuid)
		if err != nil {
			return nil, err
		}
		if holder != nil {
			result.SignatureColor = holder.SignatureColor
		}
	}
	return result, nil
}

// UserInfo summarizes the user enrolled with a Discord account
func (s *memberService) UserInfo(ctx context.Context, discordID int64) (*UserInfo, error) {
	user, err := s.lookupUser(ctx, discordID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, user)
}

// UserInfoByID summarizes the user with a database ID
func (s *memberService) UserInfoByID(ctx context.Context, id int64) (*UserInfo, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotEnrolled
	}
	return s.describe(ctx, user)
}

// describe resolves the linked account's current name. A failed lookup leaves it empty.
func (s *memberService) describe(ctx context.Context, user *models.User) (*UserInfo, error) {
	info := &UserInfo{User: user}
	if user.MinecraftUUID != nil {
		doc, err := s.fetchPlayer(ctx, *user.MinecraftUUID)
		switch {
		case err == nil:
			info.Username = hypixel.DisplayName(doc)
			info.BestPosition = s.bestPosition(info.Username)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			log.WithFields(log.Fields{
				"uuid":  *user.MinecraftUUID,
				"error": err,
			}).Warn("Failed to resolve linked account name")
		}
	}
	return info, nil
}

// UserInfoByUsername summarizes the user linked to a Minecraft account
func (s *memberService) UserInfoByUsername(ctx context.Context, username string) (*UserInfo, error) {
	doc, err := s.fetchPlayerByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player %q: %w", username, err)
	}
	uuid, err := playerUUID(doc)
	if err != nil {
		return nil, err
	}
	user, err := s.lookupByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotEnrolled
	}
	name := hypixel.DisplayName(doc)
	return &UserInfo{User: user, Username: name, BestPosition: s.bestPosition(name)}, nil
}

// SetSignatureColor sets or clears the colour used for a user's embeds
func (s *memberService) SetSignatureColor(ctx context.Context, discordID int64, color *int) error {
	if color != nil && (*color < 0 || *color > 0xFFFFFF) {
		return fmt.Errorf("invalid color %d", *color)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return ErrUserNotEnrolled
	}
	if err := uow.UserRepository().SetSignatureColor(ctx, user.ID, color); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GrantStanding raises a user's standing by hand. Nothing already recorded is lowered.
func (s *memberService) GrantStanding(ctx context.Context, discordID int64, standing models.Standing) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	user, err := users.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotEnrolled
	}

	oldRank := user.Standing.HighestRank
	updated, err := users.UpdateStanding(ctx, user.ID, standing)
	if err != nil {
		return nil, fmt.Errorf("failed to update standing: %w", err)
	}

	if updated.Standing.HighestRank > oldRank {
		event := events.StandingChangedEvent{
			UserID:    updated.ID,
			DiscordID: discordID,
			OldRank:   oldRank,
			NewRank:   updated.Standing.HighestRank,
		}
		if updated.MinecraftUUID != nil {
			event.MinecraftUUID = *updated.MinecraftUUID
		}
		uow.EventBus().Publish(event)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"discordID":     discordID,
		"highestRank":   updated.Standing.HighestRank,
		"treehard":      updated.Standing.Treehard,
		"honoraryQuest": updated.Standing.HonoraryQuest,
	}).Info("Granted standing")
	return updated, nil
}

// lookupUser returns the user enrolled with a Discord account or ErrUserNotEnrolled
func (s *memberService) lookupUser(ctx context.Context, discordID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotEnrolled
	}
	return user, nil
}

func (s *memberService) lookupByUUID(ctx context.Context, uuid string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByMinecraftUUID(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}
