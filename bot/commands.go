package bot

import (
	"fmt"

	"heinzbottle/models"

	"github.com/bwmarrin/discordgo"
)

// adminPermissions hides admin commands from members without Manage Roles
var adminPermissions int64 = discordgo.PermissionManageRoles

func rankChoices() []*discordgo.ApplicationCommandOptionChoice {
	ranks := []models.Rank{models.RankNone, models.RankMember, models.RankScout, models.RankLieutenant, models.RankVeteran}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(ranks))
	for i, rank := range ranks {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: rank.String(), Value: rank.String()}
	}
	return choices
}

func treehardChoices() []*discordgo.ApplicationCommandOptionChoice {
	levels := []models.TreehardLevel{models.TreehardNone, models.Treehard, models.TreehardPlus}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(levels))
	for i, level := range levels {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: level.String(), Value: level.String()}
	}
	return choices
}

// Commands returns every slash command the bot registers
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "link-minecraft",
			Description: "Link your Minecraft account",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Your Minecraft username",
					Required:    true,
				},
			},
		},
		{
			Name:        "update",
			Description: "Update your highest rank and roles",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "discord-user",
					Description: "Member to update (requires Manage Roles)",
					Required:    false,
				},
			},
		},
		{
			Name:        "reqs",
			Description: "Check which guild requirements a player meets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Minecraft username (defaults to your linked account)",
					Required:    false,
				},
			},
		},
		{
			Name:        "userinfo",
			Description: "Show what the bot knows about a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "me",
					Description: "Show your own record",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "from-discord-user",
					Description: "Look up a user by Discord account",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "discord-user",
							Description: "Discord user",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "from-minecraft-username",
					Description: "Look up a user by Minecraft username",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "minecraft-username",
							Description: "Minecraft username",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "from-id",
					Description: "Look up a user by database ID",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Database ID",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "set-signature-color",
			Description: "Set the color used for your embeds",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "color",
					Description: "Hex color such as #1177ff; leave out to clear",
					Required:    false,
				},
			},
		},
		{
			Name:                     "modify-user",
			Description:              "Grant recognition to a user",
			DefaultMemberPermissions: &adminPermissions,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "discord-user",
					Description: "User to modify",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "highest-rank",
					Description: "Highest recorded non-staff rank",
					Choices:     rankChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "treehard",
					Description: "Treehard level",
					Choices:     treehardChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "honorary-quest",
					Description: "Honorary quest status",
				},
			},
		},
		{
			Name:                     "update-leaderboards",
			Description:              "Refresh and republish the guild leaderboards",
			DefaultMemberPermissions: &adminPermissions,
		},
		{
			Name:                     "recover-rankings",
			Description:              "Rebuild rankings from the published leaderboards",
			DefaultMemberPermissions: &adminPermissions,
		},
		{
			Name:                     "promotions",
			Description:              "Evaluate the guild for promotions",
			DefaultMemberPermissions: &adminPermissions,
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "link-minecraft":
		b.members.HandleLink(s, i)
	case "update":
		b.members.HandleUpdate(s, i)
	case "reqs":
		b.members.HandleRequirements(s, i)
	case "userinfo":
		b.members.HandleUserInfo(s, i)
	case "set-signature-color":
		b.members.HandleSetSignatureColor(s, i)
	case "modify-user":
		b.members.HandleModifyUser(s, i)
	case "update-leaderboards":
		b.leaderboards.HandleUpdate(s, i)
	case "recover-rankings":
		b.leaderboards.HandleRecover(s, i)
	case "promotions":
		b.promotions.HandleCommand(s, i)
	}
}
