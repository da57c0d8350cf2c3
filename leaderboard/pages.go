package leaderboard

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of lines on one display page
const DefaultPageSize = 25

// EmptyBoardPage is the only page of a board with no entries
const EmptyBoardPage = "This leaderboard is empty. :("

// Recovery is the result of parsing previously published pages
type Recovery struct {
	Rankings map[string]Ranking
	Skipped  int
}

// FormatPosition renders a position marker, e.g. "`#007:`"
func FormatPosition(position int) string {
	return fmt.Sprintf("`#%03d:`", position)
}

// EscapeName escapes underscores so chat markdown shows them literally
func EscapeName(name string) string {
	return strings.ReplaceAll(name, "_", `\_`)
}

// UnescapeName reverses EscapeName
func UnescapeName(name string) string {
	return strings.ReplaceAll(name, `\_`, "_")
}

// GenerateDisplayPages renders the board as text pages of at most pageSize lines.
// A non-positive pageSize uses DefaultPageSize.
func (e *Engine) GenerateDisplayPages(pageSize int) []string {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if len(e.board) == 0 {
		return []string{EmptyBoardPage}
	}

	var pages []string
	lines := make([]string, 0, pageSize)
	e.walk(func(position int, entry ScoreEntry) {
		lines = append(lines, fmt.Sprintf("%s %s (%s)", FormatPosition(position), EscapeName(entry.Name), e.def.FormatScore(entry.Score)))
		if len(lines) == pageSize {
			pages = append(pages, strings.Join(lines, "\n"))
			lines = lines[:0]
		}
	})
	if len(lines) > 0 {
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// RebuildFromPersistedPages parses published pages back into rankings for this board.
// When rollup is non-nil the rankings are merged into it; players unknown to the rollup are
// created when initializePlayers is set and dropped otherwise.
func (e *Engine) RebuildFromPersistedPages(pages []string, rollup *Rollup, initializePlayers bool) Recovery {
	recovery := Recovery{Rankings: make(map[string]Ranking)}
	var order []string
	names := make(map[string]string)

	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || line == EmptyBoardPage {
				continue
			}
			position, name, ok := parsePageLine(line)
			if !ok {
				recovery.Skipped++
				continue
			}
			key := Key(name)
			if _, exists := recovery.Rankings[key]; exists {
				continue
			}
			recovery.Rankings[key] = Ranking{Position: position, Title: e.def.Title, Stat: e.def.Stat}
			names[key] = name
			order = append(order, key)
		}
	}

	if rollup == nil {
		return recovery
	}
	for _, key := range order {
		if _, known := rollup.Get(key); !known {
			if !initializePlayers {
				delete(recovery.Rankings, key)
				continue
			}
			rollup.Add(names[key])
		}
		rollup.Record(key, recovery.Rankings[key])
	}
	return recovery
}

// parsePageLine reads "`#007:` Some\_Name (1,234)" into its position and unescaped name
func parsePageLine(line string) (int, string, bool) {
	rest, ok := strings.CutPrefix(line, "`#")
	if !ok {
		return 0, "", false
	}
	digits, rest, ok := strings.Cut(rest, ":` ")
	if !ok || digits == "" {
		return 0, "", false
	}
	position, err := strconv.Atoi(digits)
	if err != nil || position < 1 {
		return 0, "", false
	}
	if !strings.HasSuffix(rest, ")") {
		return 0, "", false
	}
	open := strings.LastIndex(rest, " (")
	if open <= 0 {
		return 0, "", false
	}
	return position, UnescapeName(rest[:open]), true
}
