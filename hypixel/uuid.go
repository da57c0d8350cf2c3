package hypixel

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NormalizeUUID parses a dashed or undashed Minecraft UUID and returns the
// lowercase undashed form the stats API uses as a player key
func NormalizeUUID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid minecraft uuid %q: %w", raw, err)
	}
	return strings.ReplaceAll(parsed.String(), "-", ""), nil
}

// DashedUUID renders an undashed UUID in its canonical dashed form.
// Unparseable input is returned unchanged.
func DashedUUID(raw string) string {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.String()
}
