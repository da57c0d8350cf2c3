package members

import (
	"fmt"
	"strings"

	"heinzbottle/bot/common"
	"heinzbottle/hypixel"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
)

// RequirementsEmbed lists the requirements a player meets. Met requirements with a guild
// role are shown as a role mention.
func RequirementsEmbed(result *service.RequirementsResult, roles map[string]string) *discordgo.MessageEmbed {
	level := int(result.Level)
	var description strings.Builder
	description.WriteString("\n")
	switch len(result.Met) {
	case 0:
		fmt.Fprintf(&description, "is network level %d and meets 0 game requirements.", level)
	case 1:
		fmt.Fprintf(&description, "is network level %d and meets 1 game requirement:\n", level)
	default:
		fmt.Fprintf(&description, "is network level %d and meets %d game requirements:\n", level, len(result.Met))
	}
	for _, requirement := range result.Met {
		if roleID, ok := roles[requirement.Title]; ok {
			fmt.Fprintf(&description, "\n%s - %s", common.RoleMention(roleID), requirement.Game)
		} else {
			fmt.Fprintf(&description, "\n%s - %s", requirement.Title, requirement.Game)
		}
	}

	color := common.ColorRed
	switch {
	case result.SignatureColor != nil:
		color = *result.SignatureColor
	case result.MeetsGuildRequirements():
		color = common.ColorGreen
	}

	return &discordgo.MessageEmbed{
		Title:       common.EscapeName(result.Username),
		Description: description.String(),
		Color:       color,
	}
}

// UserInfoEmbed summarizes an enrolled user
func UserInfoEmbed(info *service.UserInfo) *discordgo.MessageEmbed {
	user := info.User

	discord := "Not Linked"
	if user.DiscordID != nil {
		discord = common.UserMention(*user.DiscordID)
	}

	minecraft := "Not Linked"
	if user.MinecraftUUID != nil {
		dashed := hypixel.DashedUUID(*user.MinecraftUUID)
		if info.Username != "" {
			minecraft = fmt.Sprintf("**%s** (%s)", common.EscapeName(info.Username), dashed)
		} else {
			minecraft = "API error, but UUID is: " + dashed
		}
	}

	signature := "Not Set"
	color := 0
	if user.SignatureColor != nil {
		signature = "`" + common.FormatColor(*user.SignatureColor) + "`"
		color = *user.SignatureColor
	}

	honorary := "Not Granted"
	if user.Standing.HonoraryQuest {
		honorary = "Granted"
	}

	position := "Unranked"
	if info.BestPosition > 0 {
		position = fmt.Sprintf("#%d", info.BestPosition)
	}

	lines := []string{
		fmt.Sprintf("ID: %d", user.ID),
		"Discord: " + discord,
		"Minecraft: " + minecraft,
		"Signature Color: " + signature,
		"Highest Recorded Non-Staff Rank: " + user.Standing.HighestRank.String(),
		"Treehard Level: " + user.Standing.Treehard.String(),
		"Honorary Quest Status: " + honorary,
		"Best Leaderboard Position: " + position,
	}

	return &discordgo.MessageEmbed{
		Title:       "User Info",
		Description: strings.Join(lines, "\n"),
		Color:       color,
	}
}

// SyncEmbed reports the outcome of a member sync
func SyncEmbed(result *service.SyncResult) *discordgo.MessageEmbed {
	var lines []string
	if result.RankChanged() {
		lines = append(lines, fmt.Sprintf("Highest recorded rank raised from **%s** to **%s**.", result.OldRank, result.NewRank))
	}
	if n := len(result.Roles.Add); n > 0 {
		mentions := make([]string, n)
		for i, role := range result.Roles.Add {
			mentions[i] = common.RoleMention(role)
		}
		lines = append(lines, "Added: "+strings.Join(mentions, " "))
	}
	if n := len(result.Roles.Remove); n > 0 {
		mentions := make([]string, n)
		for i, role := range result.Roles.Remove {
			mentions[i] = common.RoleMention(role)
		}
		lines = append(lines, "Removed: "+strings.Join(mentions, " "))
	}
	if len(lines) == 0 {
		lines = append(lines, "Everything is already up to date.")
	}

	return &discordgo.MessageEmbed{
		Title:       common.EscapeName(result.Username),
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorGreen,
	}
}
