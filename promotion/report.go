package promotion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"heinzbottle/hypixel"
	"heinzbottle/models"
)

// Report horizons
const (
	VerySoonWindow = 7 * day
	SoonWindow     = 30 * day
)

// NoPromotionsMessage is shown when a report has no entries
const NoPromotionsMessage = "There are no current promotions or guaranteed upcoming promotions scheduled within the next 30 days."

// Entry is one line of a promotions report
type Entry struct {
	Name string
	Rank models.Rank
	// At is when a very soon promotion becomes available
	At time.Time
	// Days until a soon promotion becomes available
	Days float64
}

// Report buckets roster promotions by how soon they are available
type Report struct {
	GeneratedAt time.Time
	Now         []Entry
	VerySoon    []Entry
	Soon        []Entry
}

// NewReport creates an empty report evaluated at now
func NewReport(now time.Time) *Report {
	return &Report{GeneratedAt: now}
}

// Add files a player's outlook into the matching buckets
func (r *Report) Add(name string, outlook Outlook) {
	if outlook.Now != nil {
		r.Now = append(r.Now, Entry{Name: name, Rank: outlook.Now.Rank})
	}
	next := outlook.Next
	if next == nil || next.Distance.Unreachable || next.Distance.Wait > SoonWindow {
		return
	}
	if next.Distance.Wait <= VerySoonWindow {
		r.VerySoon = append(r.VerySoon, Entry{Name: name, Rank: next.Rank, At: r.GeneratedAt.Add(next.Distance.Wait)})
		return
	}
	r.Soon = append(r.Soon, Entry{Name: name, Rank: next.Rank, Days: next.Distance.Wait.Hours() / 24})
}

// Sort orders the upcoming buckets by time
func (r *Report) Sort() {
	sort.SliceStable(r.VerySoon, func(i, j int) bool { return r.VerySoon[i].At.Before(r.VerySoon[j].At) })
	sort.SliceStable(r.Soon, func(i, j int) bool { return r.Soon[i].Days < r.Soon[j].Days })
}

// Empty reports whether nothing is due within SoonWindow
func (r *Report) Empty() bool {
	return len(r.Now) == 0 && len(r.VerySoon) == 0 && len(r.Soon) == 0
}

// Description renders the report as chat markdown
func (r *Report) Description() string {
	if r.Empty() {
		return NoPromotionsMessage
	}

	var lines []string
	for _, e := range r.Now {
		lines = append(lines, fmt.Sprintf(":star: **%s** can be promoted to **%s**!", escapeName(e.Name), e.Rank))
	}
	for _, e := range r.VerySoon {
		ts := e.At.Unix()
		lines = append(lines, fmt.Sprintf(":warning: **%s** will qualify for **%s** on <t:%d:D> at <t:%d:t>.", escapeName(e.Name), e.Rank, ts, ts))
	}
	for _, e := range r.Soon {
		lines = append(lines, fmt.Sprintf(":warning: **%s** will qualify for **%s** in %s days.", escapeName(e.Name), e.Rank, FormatDays(e.Days)))
	}
	return strings.Join(lines, "\n\n")
}

// FormatDays rounds days up to one decimal place, e.g. 12.01 -> "12.1"
func FormatDays(days float64) string {
	return hypixel.PadOneDecimalPlace(strconv.FormatFloat(hypixel.CeilDecimals(days, 1), 'f', -1, 64))
}

func escapeName(name string) string {
	return strings.ReplaceAll(name, "_", `\_`)
}
