package members

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"heinzbottle/bot/common"
	"heinzbottle/hypixel"
	"heinzbottle/models"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	notLinkedMessage     = "A linked Minecraft account is required to use this command without an argument. You can link your Minecraft account with `/link-minecraft`."
	notEnrolledMessage   = "You are not currently enrolled in the database; use `/link-minecraft`!"
	userNotFoundMessage  = "A matching user has not been found. :("
	invalidNameMessage   = "That is not a valid username."
	invalidColorMessage  = "The color was not provided in 8-bit hexadecimal format."
	unknownPlayerMessage = "Hypixel doesn't seem to have any information about the provided player. This player probably changed usernames, never logged into Hypixel, or doesn't exist."
)

// Feature handles account linking, member syncs and user lookups
type Feature struct {
	service          service.MemberService
	guild            Guild
	guildID          string
	requirementRoles map[string]string
}

// NewFeature creates a new members feature instance. requirementRoles maps requirement
// titles to the role shown for them in /reqs.
func NewFeature(memberService service.MemberService, guild Guild, guildID string, requirementRoles map[string]string) *Feature {
	return &Feature{
		service:          memberService,
		guild:            guild,
		guildID:          guildID,
		requirementRoles: requirementRoles,
	}
}

// options indexes the options of a command or subcommand by name
func options(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	indexed := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		indexed[opt.Name] = opt
	}
	return indexed
}

func (f *Feature) callerID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	id, err := common.ParseID(common.UserID(i))
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", common.UserID(i), err)
		common.EditWithNotice(s, i, common.GenericFailure)
		return 0, false
	}
	return id, true
}

// HandleLink handles /link-minecraft
func (f *Feature) HandleLink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring link-minecraft response: %v", err)
		return
	}
	discordID, ok := f.callerID(s, i)
	if !ok {
		return
	}

	username := options(i.ApplicationCommandData().Options)["username"].StringValue()
	if !hypixel.IsValidUsername(username) {
		common.EditWithNotice(s, i, invalidNameMessage)
		return
	}

	ctx := context.Background()
	result, err := f.service.Link(ctx, discordID, username)
	if err != nil {
		common.HandleError(s, i, LinkError(err, discordID), true)
		return
	}

	common.EditWithEmbed(s, i, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("You have been linked to **%s**!", common.EscapeName(result.Username)),
		Color:       common.ColorGreen,
	})

	// bring roles in line with the new link
	if _, err := f.sync(ctx, discordID, common.UserID(i), common.MemberRoles(i)); err != nil {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"error":     err,
		}).Warn("Failed to sync member after linking")
	}
}

// HandleUpdate handles /update. Updating another member requires the Manage Roles permission.
func (f *Feature) HandleUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring update response: %v", err)
		return
	}

	userID := common.UserID(i)
	currentRoles := common.MemberRoles(i)
	self := true
	if opt, ok := options(i.ApplicationCommandData().Options)["discord-user"]; ok && opt.UserValue(nil).ID != userID {
		if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageRoles == 0 {
			common.EditWithNotice(s, i, "You need the Manage Roles permission to update other members.")
			return
		}
		userID = opt.UserValue(nil).ID
		self = false

		member, err := f.guild.GuildMember(f.guildID, userID)
		if err != nil {
			common.HandleError(s, i, common.NewUserError(userNotFoundMessage, "failed to fetch guild member "+userID), true)
			return
		}
		currentRoles = member.Roles
	}

	discordID, err := common.ParseID(userID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse discord id"), true)
		return
	}

	result, err := f.sync(context.Background(), discordID, userID, currentRoles)
	if err != nil {
		common.HandleError(s, i, SyncError(err, self), true)
		return
	}
	common.EditWithEmbed(s, i, SyncEmbed(result))
}

func (f *Feature) sync(ctx context.Context, discordID int64, userID string, currentRoles []string) (*service.SyncResult, error) {
	result, err := f.service.Sync(ctx, discordID, currentRoles)
	if err != nil {
		return nil, err
	}
	if err := ApplyRoles(f.guild, f.guildID, userID, result.Roles); err != nil {
		log.WithFields(log.Fields{
			"userID": userID,
			"error":  err,
		}).Error("Failed to apply role changes")
	}
	return result, nil
}

// HandleRequirements handles /reqs
func (f *Feature) HandleRequirements(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring reqs response: %v", err)
		return
	}
	discordID, ok := f.callerID(s, i)
	if !ok {
		return
	}

	var username string
	if opt, ok := options(i.ApplicationCommandData().Options)["username"]; ok {
		username = opt.StringValue()
		if !hypixel.IsValidUsername(username) {
			common.EditWithNotice(s, i, invalidNameMessage)
			return
		}
	}

	result, err := f.service.Requirements(context.Background(), discordID, username)
	if err != nil {
		common.HandleError(s, i, RequirementsError(err), true)
		return
	}
	common.EditWithEmbed(s, i, RequirementsEmbed(result, f.requirementRoles))
}

// HandleUserInfo handles /userinfo and its lookup subcommands
func (f *Feature) HandleUserInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring userinfo response: %v", err)
		return
	}
	ctx := context.Background()

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	subcommand := data.Options[0]
	opts := options(subcommand.Options)

	var (
		info *service.UserInfo
		err  error
	)
	switch subcommand.Name {
	case "me":
		discordID, ok := f.callerID(s, i)
		if !ok {
			return
		}
		info, err = f.service.UserInfo(ctx, discordID)
	case "from-discord-user":
		var discordID int64
		discordID, err = common.ParseID(opts["discord-user"].UserValue(nil).ID)
		if err == nil {
			info, err = f.service.UserInfo(ctx, discordID)
		}
	case "from-minecraft-username":
		username := opts["minecraft-username"].StringValue()
		if !hypixel.IsValidUsername(username) {
			common.EditWithNotice(s, i, invalidNameMessage)
			return
		}
		info, err = f.service.UserInfoByUsername(ctx, username)
	case "from-id":
		info, err = f.service.UserInfoByID(ctx, opts["id"].IntValue())
	default:
		return
	}

	if err != nil {
		common.HandleError(s, i, UserInfoError(err), true)
		return
	}
	common.EditWithEmbed(s, i, UserInfoEmbed(info))
}

// HandleSetSignatureColor handles /set-signature-color. Omitting the colour clears it.
func (f *Feature) HandleSetSignatureColor(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring set-signature-color response: %v", err)
		return
	}
	discordID, ok := f.callerID(s, i)
	if !ok {
		return
	}

	var color *int
	if opt, ok := options(i.ApplicationCommandData().Options)["color"]; ok {
		parsed, err := common.ParseColor(opt.StringValue())
		if err != nil {
			common.EditWithNotice(s, i, invalidColorMessage)
			return
		}
		color = &parsed
	}

	err := f.service.SetSignatureColor(context.Background(), discordID, color)
	switch {
	case errors.Is(err, service.ErrUserNotEnrolled):
		common.HandleError(s, i, common.NewUserError(notEnrolledMessage, "signature color for unenrolled user"), true)
		return
	case err != nil:
		common.HandleError(s, i, common.NewSystemError(err, "failed to set signature color"), true)
		return
	}

	common.EditWithEmbed(s, i, SignatureColorEmbed(color))
}

// HandleModifyUser handles /modify-user, which grants recognition by hand
func (f *Feature) HandleModifyUser(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring modify-user response: %v", err)
		return
	}

	opts := options(i.ApplicationCommandData().Options)
	discordID, err := common.ParseID(opts["discord-user"].UserValue(nil).ID)
	if err != nil {
		common.EditWithNotice(s, i, userNotFoundMessage)
		return
	}

	standing, err := StandingFromOptions(opts)
	if err != nil {
		common.EditWithNotice(s, i, err.Error()+".")
		return
	}

	user, err := f.service.GrantStanding(context.Background(), discordID, standing)
	switch {
	case errors.Is(err, service.ErrUserNotEnrolled):
		common.HandleError(s, i, common.NewUserError(userNotFoundMessage, "modify-user target not enrolled"), true)
		return
	case err != nil:
		common.HandleError(s, i, common.NewSystemError(err, "failed to modify user"), true)
		return
	}

	common.EditWithEmbed(s, i, UserInfoEmbed(&service.UserInfo{User: user}))
}

// StandingFromOptions reads the recognition an admin grants through /modify-user
func StandingFromOptions(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (models.Standing, error) {
	var standing models.Standing
	if opt, ok := opts["highest-rank"]; ok {
		rank, ok := models.ParseRank(opt.StringValue())
		if !ok {
			return standing, fmt.Errorf("%q is not a guild rank", opt.StringValue())
		}
		standing.HighestRank = rank
	}
	if opt, ok := opts["treehard"]; ok {
		switch strings.ToLower(opt.StringValue()) {
		case "treehard":
			standing.Treehard = models.Treehard
		case "treehard+":
			standing.Treehard = models.TreehardPlus
		case "none":
		default:
			return standing, fmt.Errorf("%q is not a Treehard level", opt.StringValue())
		}
	}
	if opt, ok := opts["honorary-quest"]; ok {
		standing.HonoraryQuest = opt.BoolValue()
	}
	return standing, nil
}

// SignatureColorEmbed confirms a signature colour change
func SignatureColorEmbed(color *int) *discordgo.MessageEmbed {
	if color == nil {
		return &discordgo.MessageEmbed{
			Description: "Your signature color has been cleared.",
			Color:       common.ColorGreen,
		}
	}
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Your signature color has been updated to `%s`!", common.FormatColor(*color)),
		Color:       *color,
	}
}

// LinkError explains why linking failed
func LinkError(err error, callerID int64) *common.BotError {
	var linked *service.LinkedElsewhereError
	switch {
	case errors.As(err, &linked):
		holder := "someone"
		if linked.DiscordID != nil {
			holder = common.UserMention(*linked.DiscordID)
			if *linked.DiscordID == callerID {
				holder = "you"
			}
		}
		return common.NewUserError(
			fmt.Sprintf("**%s** is already linked to %s!", common.EscapeName(linked.Username), holder),
			"minecraft account already linked",
		)
	case errors.Is(err, service.ErrPlayerNotFound):
		return common.NewUserError(unknownPlayerMessage, "link target not found")
	default:
		return common.NewSystemError(err, "failed to link minecraft account")
	}
}

// SyncError explains why a sync failed. self selects wording addressed to the caller.
func SyncError(err error, self bool) *common.BotError {
	switch {
	case errors.Is(err, service.ErrUserNotEnrolled), errors.Is(err, service.ErrMinecraftNotLinked):
		if self {
			return common.NewUserError(notEnrolledMessage, "sync of unlinked user")
		}
		return common.NewUserError(userNotFoundMessage, "sync of unlinked user")
	case errors.Is(err, service.ErrPlayerNotFound):
		return common.NewUserError(unknownPlayerMessage, "synced player not found")
	case errors.Is(err, service.ErrGuildNotFound):
		return common.NewSystemError(err, "guild not found")
	default:
		return common.NewSystemError(err, "failed to sync member")
	}
}

// RequirementsError explains why a requirements check failed
func RequirementsError(err error) *common.BotError {
	switch {
	case errors.Is(err, service.ErrUserNotEnrolled), errors.Is(err, service.ErrMinecraftNotLinked):
		return common.NewUserError(notLinkedMessage, "reqs without a linked account")
	case errors.Is(err, service.ErrPlayerNotFound):
		return common.NewUserError(unknownPlayerMessage, "reqs player not found")
	default:
		return common.NewSystemError(err, "failed to check requirements")
	}
}

// UserInfoError explains why a user lookup failed
func UserInfoError(err error) *common.BotError {
	switch {
	case errors.Is(err, service.ErrUserNotEnrolled), errors.Is(err, service.ErrPlayerNotFound):
		return common.NewUserError(userNotFoundMessage, "userinfo target not found")
	default:
		return common.NewSystemError(err, "failed to look up user")
	}
}
