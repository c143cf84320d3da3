package usecase

import "github.com/riskibarqy/matchday-catalog/internal/domain/league"

const fallbackFixtureLimit = 10

const (
	filterReasonNoAllowList = "interested leagues are not configured"
	filterReasonNoMatch     = "no provider item matched the interested leagues"
)

// InterestedLeague is one allow-list entry. Name and country are compared
// case-insensitively after trimming.
type InterestedLeague struct {
	Name    string
	Country string
}

func (l InterestedLeague) matches(info *ExternalLeagueInfo) bool {
	if info == nil {
		return false
	}
	candidate := league.League{Name: info.Name, Country: info.Country}
	return candidate.Matches(l.Name, l.Country)
}

type FilterOutcome struct {
	Items           []ExternalFixtureItem
	FallbackApplied bool
	Reason          string
}

// FilterInterestedLeagues keeps items whose league is in interested, in
// provider order. Without an allow-list or without a single match it falls
// back to the first fallbackFixtureLimit raw items.
func FilterInterestedLeagues(items []ExternalFixtureItem, interested []InterestedLeague) FilterOutcome {
	if len(interested) == 0 {
		return fallbackOutcome(items, filterReasonNoAllowList)
	}

	matched := make([]ExternalFixtureItem, 0, len(items))
	for _, item := range items {
		for _, entry := range interested {
			if entry.matches(item.League) {
				matched = append(matched, item)
				break
			}
		}
	}
	if len(matched) == 0 {
		return fallbackOutcome(items, filterReasonNoMatch)
	}

	return FilterOutcome{Items: matched}
}

func fallbackOutcome(items []ExternalFixtureItem, reason string) FilterOutcome {
	limit := min(fallbackFixtureLimit, len(items))
	out := make([]ExternalFixtureItem, limit)
	copy(out, items[:limit])
	return FilterOutcome{
		Items:           out,
		FallbackApplied: true,
		Reason:          reason,
	}
}
