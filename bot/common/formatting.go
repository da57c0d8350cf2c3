package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Embed colours
const (
	ColorGreen  = 0x2ECC71
	ColorGold   = 0xF1C40F
	ColorOrange = 0xE67E22
	ColorPurple = 0x9B59B6
	ColorRed    = 0xE74C3C
	ColorBlue   = 0x3498DB
)

// GenericFailure is shown when a request fails for a reason the user cannot act on
const GenericFailure = "Oopsies, something went wrong!"

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// EscapeName escapes the markdown characters that appear in Minecraft usernames
func EscapeName(name string) string {
	return strings.ReplaceAll(name, "_", "\\_")
}

// RoleMention renders a role mention
func RoleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

// UserMention renders a user mention
func UserMention(userID int64) string {
	return "<@" + strconv.FormatInt(userID, 10) + ">"
}

// ParseID converts a Discord snowflake to the integer form stored in the database
func ParseID(id string) (int64, error) {
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid discord id %q: %w", id, err)
	}
	return value, nil
}

// FormatID converts a stored snowflake back to Discord's string form
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseColor parses a hex colour of one to six digits, optionally prefixed with "#" or "0x"
func ParseColor(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if len(trimmed) < 1 || len(trimmed) > 6 {
		return 0, fmt.Errorf("colour %q must have one to six hex digits", raw)
	}
	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q is not hexadecimal", raw)
	}
	return int(value), nil
}

// FormatColor renders a colour as "#rrggbb"
func FormatColor(color int) string {
	return fmt.Sprintf("#%06x", color)
}
