package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-catalog/internal/domain/league"
	"github.com/riskibarqy/matchday-catalog/internal/domain/team"
)

func TestMapFixture_StatusClassification(t *testing.T) {
	t.Parallel()

	lg := league.League{ID: 1, ExternalID: 10, Name: "Super League"}
	home := team.Team{ID: 2, ExternalID: 1, Name: "Team 1"}
	away := team.Team{ID: 3, ExternalID: 2, Name: "Team 2"}

	cases := []struct {
		short    string
		long     string
		wantLive bool
		wantDesc string
	}{
		{short: "1H", wantLive: true, wantDesc: "First Half, Kick Off"},
		{short: "FT", wantLive: false, wantDesc: "Match Finished"},
		{short: "ZZ", long: "Something New", wantLive: false, wantDesc: "Something New"},
	}

	for _, tc := range cases {
		item := testItem(1, 10, "Super League", "Mockland", 1, 2, tc.short)
		item.Fixture.StatusLong = tc.long

		got, err := MapFixture(item, lg, home, away)
		if err != nil {
			t.Fatalf("map fixture status=%s: %v", tc.short, err)
		}
		if got.Status.IsLive != tc.wantLive {
			t.Fatalf("status=%s: unexpected live flag got=%v want=%v", tc.short, got.Status.IsLive, tc.wantLive)
		}
		if got.Status.Description != tc.wantDesc {
			t.Fatalf("status=%s: unexpected description got=%q want=%q", tc.short, got.Status.Description, tc.wantDesc)
		}
	}
}

func TestMapFixture_CopiesReferencesAndScores(t *testing.T) {
	t.Parallel()

	item := testItem(77, 10, "Super League", "Mockland", 1, 2, "2H")
	item.Fixture.Elapsed = intPtr(63)
	item.Fixture.Referee = " M. Oliver "

	got, err := MapFixture(item, league.League{ID: 5}, team.Team{ID: 6}, team.Team{ID: 7})
	if err != nil {
		t.Fatalf("map fixture: %v", err)
	}
	if got.ExternalID != 77 || got.LeagueID != 5 || got.HomeTeamID != 6 || got.AwayTeamID != 7 {
		t.Fatalf("unexpected references: %+v", got)
	}
	if got.HomeGoals == nil || *got.HomeGoals != 1 || got.AwayGoals == nil || *got.AwayGoals != 0 {
		t.Fatalf("unexpected goals: home=%v away=%v", got.HomeGoals, got.AwayGoals)
	}
	if got.Elapsed == nil || *got.Elapsed != 63 {
		t.Fatalf("unexpected elapsed: %v", got.Elapsed)
	}
	if got.Referee != "M. Oliver" {
		t.Fatalf("unexpected referee: %q", got.Referee)
	}

	*item.Fixture.Elapsed = 90
	if *got.Elapsed != 63 {
		t.Fatalf("mapped fixture must not alias provider values")
	}
}

func TestMapFixture_KickoffParsing(t *testing.T) {
	t.Parallel()

	item := testItem(1, 10, "Super League", "Mockland", 1, 2, "NS")
	item.Fixture.Date = "2026-10-16T21:00:00+02:00"
	got, err := MapFixture(item, league.League{ID: 1}, team.Team{ID: 2}, team.Team{ID: 3})
	if err != nil {
		t.Fatalf("map fixture: %v", err)
	}
	if want := time.Date(2026, 10, 16, 19, 0, 0, 0, time.UTC); !got.KickoffAt.Equal(want) || got.KickoffAt.Location() != time.UTC {
		t.Fatalf("unexpected kickoff: got=%s want=%s", got.KickoffAt, want)
	}

	item.Fixture.Date = "not-a-date"
	item.Fixture.Timestamp = 1792170000
	got, err = MapFixture(item, league.League{ID: 1}, team.Team{ID: 2}, team.Team{ID: 3})
	if err != nil {
		t.Fatalf("map fixture with timestamp fallback: %v", err)
	}
	if !got.KickoffAt.Equal(time.Unix(1792170000, 0)) {
		t.Fatalf("unexpected kickoff from timestamp: %s", got.KickoffAt)
	}
}

func TestItemSkipReason(t *testing.T) {
	t.Parallel()

	valid := testItem(1, 10, "Super League", "Mockland", 1, 2, "NS")
	if reason := itemSkipReason(valid); reason != "" {
		t.Fatalf("expected valid item, got reason %q", reason)
	}

	noFixture := valid
	noFixture.Fixture = nil

	noLeague := valid
	noLeague.League = nil

	noTeams := valid
	noTeams.Teams = nil

	noAway := testItem(1, 10, "Super League", "Mockland", 1, 2, "NS")
	noAway.Teams.Away = nil

	noKickoff := testItem(1, 10, "Super League", "Mockland", 1, 2, "NS")
	noKickoff.Fixture.Date = ""

	for name, item := range map[string]ExternalFixtureItem{
		"no fixture": noFixture,
		"no league":  noLeague,
		"no teams":   noTeams,
		"no away":    noAway,
		"no kickoff": noKickoff,
	} {
		if itemSkipReason(item) == "" {
			t.Fatalf("%s: expected skip reason", name)
		}
		if _, err := MapFixture(item, league.League{ID: 1}, team.Team{ID: 2}, team.Team{ID: 3}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}
