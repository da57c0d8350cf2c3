package hypixel

import (
	"errors"
	"fmt"
	"time"

	"heinzbottle/statdoc"
)

// ErrGuildNotFound is returned when the API has no guild for the requested ID
var ErrGuildNotFound = errors.New("guild not found")

// Member is one roster entry of the guild
type Member struct {
	UUID               string
	Rank               string
	Joined             time.Time // zero when the API omitted it
	QuestParticipation int64
}

// Guild is the parsed guild response
type Guild struct {
	ID      string
	Name    string
	Members []Member
}

// ParseGuild extracts the roster from a guild response document.
// Members without a usable UUID are skipped.
func ParseGuild(doc *statdoc.Document) (*Guild, error) {
	if success, ok := doc.Bool("success"); ok && !success {
		return nil, fmt.Errorf("guild request was not successful: %w", ErrGuildNotFound)
	}
	if kind, ok := doc.KindAt("guild"); !ok || kind != statdoc.Object {
		return nil, ErrGuildNotFound
	}

	members, ok := doc.Array("guild.members")
	if !ok || len(members) == 0 {
		return nil, fmt.Errorf("guild response has no member list")
	}

	guild := &Guild{}
	guild.ID, _ = doc.String("guild._id")
	guild.Name, _ = doc.String("guild.name")

	for _, raw := range members {
		member := statdoc.Wrap(raw)
		rawUUID, ok := member.String("uuid")
		if !ok {
			continue
		}
		id, err := NormalizeUUID(rawUUID)
		if err != nil {
			continue
		}

		entry := Member{UUID: id}
		entry.Rank, _ = member.String("rank")
		if joined, ok := member.Int("joined"); ok {
			entry.Joined = time.UnixMilli(joined)
		}
		if quests, ok := member.Int("questParticipation"); ok {
			entry.QuestParticipation = quests
		}
		guild.Members = append(guild.Members, entry)
	}

	return guild, nil
}
