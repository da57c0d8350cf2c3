package members

import (
	"errors"
	"fmt"

	"heinzbottle/requirements"
	"heinzbottle/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Guild is the subset of the Discord session used to read and change member roles
type Guild interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// RequirementRoles maps requirement titles to the guild roles named after them.
// Requirements without a matching role are left out.
func RequirementRoles(guildRoles []*discordgo.Role, rules *requirements.RuleSet) map[string]string {
	byName := make(map[string]string, len(guildRoles))
	for _, role := range guildRoles {
		byName[role.Name] = role.ID
	}

	roles := make(map[string]string)
	for _, requirement := range rules.All() {
		if id, ok := byName[requirement.Title]; ok {
			roles[requirement.Title] = id
		}
	}
	return roles
}

// ApplyRoles adds and removes roles on a guild member. Every change is attempted; the
// failures are joined into the returned error.
func ApplyRoles(guild Guild, guildID, userID string, changes service.RoleChanges) error {
	var errs []error
	for _, role := range changes.Add {
		if err := guild.GuildMemberRoleAdd(guildID, userID, role); err != nil {
			errs = append(errs, fmt.Errorf("add role %s: %w", role, err))
		}
	}
	for _, role := range changes.Remove {
		if err := guild.GuildMemberRoleRemove(guildID, userID, role); err != nil {
			errs = append(errs, fmt.Errorf("remove role %s: %w", role, err))
		}
	}
	if len(errs) > 0 {
		log.WithFields(log.Fields{
			"userID":   userID,
			"failures": len(errs),
		}).Warn("Some role changes could not be applied")
	}
	return errors.Join(errs...)
}
