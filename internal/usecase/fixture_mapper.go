package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-catalog/internal/domain/fixture"
	"github.com/riskibarqy/matchday-catalog/internal/domain/league"
	"github.com/riskibarqy/matchday-catalog/internal/domain/team"
)

// itemSkipReason returns a non-empty reason when item cannot be mapped into a
// fixture. Skipped items are logged and counted, they never abort a pass.
func itemSkipReason(item ExternalFixtureItem) string {
	switch {
	case item.Fixture == nil:
		return "missing fixture object"
	case item.Fixture.ID <= 0:
		return "missing fixture id"
	case item.League == nil:
		return "missing league object"
	case item.League.ID <= 0 || strings.TrimSpace(item.League.Name) == "":
		return "incomplete league object"
	case item.Teams == nil || item.Teams.Home == nil || item.Teams.Away == nil:
		return "missing teams pair"
	case item.Teams.Home.ID <= 0 || item.Teams.Away.ID <= 0:
		return "missing team id"
	case strings.TrimSpace(item.Teams.Home.Name) == "" || strings.TrimSpace(item.Teams.Away.Name) == "":
		return "missing team name"
	}

	if _, err := parseKickoff(*item.Fixture); err != nil {
		return err.Error()
	}
	return ""
}

// MapFixture builds the canonical fixture for item using entities resolved in
// the current pass.
func MapFixture(item ExternalFixtureItem, lg league.League, home, away team.Team) (fixture.Fixture, error) {
	if reason := itemSkipReason(item); reason != "" {
		return fixture.Fixture{}, fmt.Errorf("%w: %s", ErrInvalidInput, reason)
	}

	kickoffAt, err := parseKickoff(*item.Fixture)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := fixture.Fixture{
		ExternalID: item.Fixture.ID,
		LeagueID:   lg.ID,
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		KickoffAt:  kickoffAt,
		Status:     fixture.ClassifyStatus(item.Fixture.StatusShort, item.Fixture.StatusLong),
		Elapsed:    copyIntPtr(item.Fixture.Elapsed),
		HomeGoals:  copyIntPtr(item.Goals.Home),
		AwayGoals:  copyIntPtr(item.Goals.Away),
		Venue:      strings.TrimSpace(item.Fixture.Venue),
		Referee:    strings.TrimSpace(item.Fixture.Referee),
	}
	if err := out.Validate(); err != nil {
		return fixture.Fixture{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return out, nil
}

func parseKickoff(info ExternalFixtureInfo) (time.Time, error) {
	if value := strings.TrimSpace(info.Date); value != "" {
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	if info.Timestamp > 0 {
		return time.Unix(info.Timestamp, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid kickoff date %q", info.Date)
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
