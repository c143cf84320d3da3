package usecase

import "context"

// FixtureProvider reads raw fixture items from the upstream sports data API.
type FixtureProvider interface {
	FetchFixtures(ctx context.Context, params map[string]string) ([]ExternalFixtureItem, error)
}

// ExternalFixtureItem is one element of the provider's fixtures response.
// Sub-objects are pointers because the provider may omit any of them.
type ExternalFixtureItem struct {
	Fixture *ExternalFixtureInfo
	League  *ExternalLeagueInfo
	Teams   *ExternalTeamsPair
	Goals   ExternalGoals
}

type ExternalFixtureInfo struct {
	ID          int64
	Date        string
	Timestamp   int64
	Referee     string
	Venue       string
	StatusShort string
	StatusLong  string
	Elapsed     *int
}

type ExternalLeagueInfo struct {
	ID      int64
	Name    string
	Country string
	Logo    string
	Season  int
}

type ExternalTeamsPair struct {
	Home *ExternalTeamInfo
	Away *ExternalTeamInfo
}

type ExternalTeamInfo struct {
	ID   int64
	Name string
	Logo string
}

type ExternalGoals struct {
	Home *int
	Away *int
}
