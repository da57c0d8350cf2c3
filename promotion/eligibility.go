package promotion

import (
	"time"

	"heinzbottle/hypixel"
	"heinzbottle/models"
	"heinzbottle/requirements"
	"heinzbottle/statdoc"
)

const day = 24 * time.Hour

// Tenure thresholds per target rank, before halving
const (
	ScoutTenure      = 90 * day
	LieutenantTenure = 250 * day
	VeteranTenure    = 365 * day
)

// Gates that are not based on tenure
const (
	MemberMinLevel         = 85
	MemberMinRequirements  = 1
	LieutenantMinLevel     = 100
	VeteranMinLevel        = 200
	VeteranMinAchievements = 8000
	VeteranMinRequirements = 3
)

// Distance is the time until a player qualifies for a rank.
// The zero value means eligible now; Unreachable means a non-tenure gate fails.
type Distance struct {
	Wait        time.Duration
	Unreachable bool
}

// Unreachable is the distance of a rank whose non-tenure gate fails
func Unreachable() Distance {
	return Distance{Unreachable: true}
}

// Eligible reports whether the player qualifies now
func (d Distance) Eligible() bool {
	return !d.Unreachable && d.Wait <= 0
}

// Candidate is a rank the player could be promoted to and how far away it is
type Candidate struct {
	Rank     models.Rank
	Distance Distance
}

// TimeSince returns how long ago the player joined. It reports false for a missing join
// date and for join dates in the future.
func TimeSince(joined, now time.Time) (time.Duration, bool) {
	if joined.IsZero() || joined.After(now) {
		return 0, false
	}
	return now.Sub(joined), true
}

// Eligibility computes the distance between a player and a target rank
func Eligibility(doc *statdoc.Document, tenure time.Duration, target, previousHighest models.Rank, rules *requirements.RuleSet) Distance {
	level := int(hypixel.PlayerLevel(doc))

	switch target {
	case models.RankNone:
		return Distance{}
	case models.RankMember:
		if rules.Count(doc) >= MemberMinRequirements && level >= MemberMinLevel {
			return Distance{}
		}
		return Unreachable()
	case models.RankScout:
		threshold := ScoutTenure
		if previousHighest >= models.RankScout {
			threshold /= 2
		}
		return Distance{Wait: threshold - tenure}
	case models.RankLieutenant:
		if level < LieutenantMinLevel {
			return Unreachable()
		}
		threshold := LieutenantTenure
		if previousHighest >= models.RankLieutenant {
			threshold /= 2
		}
		return Distance{Wait: threshold - tenure}
	case models.RankVeteran:
		achievements, _ := doc.Number(hypixel.PathAchievementPoints)
		if level < VeteranMinLevel || achievements < VeteranMinAchievements || rules.Count(doc) < VeteranMinRequirements {
			return Unreachable()
		}
		threshold := VeteranTenure
		// Returning Lieutenants already earn the shortened Veteran tenure
		if previousHighest >= models.RankLieutenant {
			threshold /= 2
		}
		return Distance{Wait: threshold - tenure}
	default:
		return Unreachable()
	}
}

// FindBestPromotionCandidate picks the best rank above current. An eligible rank beats
// any future one; among eligible ranks the highest wins, among future ranks the soonest
// wins with ties going to the higher rank.
func FindBestPromotionCandidate(doc *statdoc.Document, tenure time.Duration, current, previousHighest models.Rank, rules *requirements.RuleSet) (Candidate, bool) {
	var best Candidate
	found := false
	for target := current + 1; target <= models.RankVeteran; target++ {
		distance := Eligibility(doc, tenure, target, previousHighest, rules)
		if distance.Unreachable {
			continue
		}
		candidate := Candidate{Rank: target, Distance: distance}
		if !found || better(candidate, best) {
			best, found = candidate, true
		}
	}
	return best, found
}

func better(a, b Candidate) bool {
	aNow, bNow := a.Distance.Eligible(), b.Distance.Eligible()
	switch {
	case aNow != bNow:
		return aNow
	case aNow:
		return a.Rank > b.Rank
	case a.Distance.Wait != b.Distance.Wait:
		return a.Distance.Wait < b.Distance.Wait
	default:
		return a.Rank > b.Rank
	}
}

// Outlook is a player's immediate promotion and their next upcoming one
type Outlook struct {
	Now  *Candidate
	Next *Candidate
}

// Evaluate finds the promotion available now, then looks past it for the next upcoming one
func Evaluate(doc *statdoc.Document, tenure time.Duration, current, previousHighest models.Rank, rules *requirements.RuleSet) Outlook {
	var outlook Outlook
	best, ok := FindBestPromotionCandidate(doc, tenure, current, previousHighest, rules)
	if !ok {
		return outlook
	}
	if !best.Distance.Eligible() {
		outlook.Next = &best
		return outlook
	}

	outlook.Now = &best
	if next, ok := FindBestPromotionCandidate(doc, tenure, best.Rank, previousHighest, rules); ok {
		outlook.Next = &next
	}
	return outlook
}

// FindBestEligibleRank returns the highest rank the player qualifies for now
func FindBestEligibleRank(doc *statdoc.Document, tenure time.Duration, previousHighest models.Rank, rules *requirements.RuleSet) models.Rank {
	for rank := models.RankVeteran; rank >= models.RankMember; rank-- {
		if Eligibility(doc, tenure, rank, previousHighest, rules).Eligible() {
			return rank
		}
	}
	return models.RankNone
}
