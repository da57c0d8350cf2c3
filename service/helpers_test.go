package service

import (
	"time"

	"heinzbottle/hypixel"
	"heinzbottle/requirements"
	"heinzbottle/statdoc"
)

var testRules = requirements.NewRuleSet(
	requirements.Simple("First", "Test", "player.r1", 1),
	requirements.Simple("Second", "Test", "player.r2", 1),
	requirements.Simple("Third", "Test", "player.r3", 1),
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// playerDoc builds a player document with the given display name, uuid and extra fields
func playerDoc(name, uuid string, fields map[string]any) *statdoc.Document {
	player := map[string]any{
		"displayname": name,
		"uuid":        uuid,
	}
	for k, v := range fields {
		player[k] = v
	}
	return statdoc.New(map[string]any{"success": true, "player": player})
}

// levelDoc builds a player at roughly the given network level meeting met of the test requirements
func levelDoc(name, uuid string, level float64, met int) *statdoc.Document {
	fields := map[string]any{"networkExp": hypixel.NetworkExperience(level + 0.5)}
	for i, key := range []string{"r1", "r2", "r3"} {
		if i < met {
			fields[key] = 1
		}
	}
	return playerDoc(name, uuid, fields)
}

func testUUID(n int) string {
	const hex = "0123456789abcdef"
	return "0000000000000000000000000000000" + string(hex[n%16])
}

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func testGuild(members ...hypixel.Member) *hypixel.Guild {
	return &hypixel.Guild{ID: "guild", Name: "Heinz", Members: members}
}
