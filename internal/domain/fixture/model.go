package fixture

import (
	"fmt"
	"time"
)

// Fixture represents one synced match.
type Fixture struct {
	ID         int64
	ExternalID int64
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	KickoffAt  time.Time
	Status     Status
	Elapsed    *int
	HomeGoals  *int
	AwayGoals  *int
	Venue      string
	Referee    string
}

func (f Fixture) Validate() error {
	if f.ExternalID <= 0 {
		return fmt.Errorf("fixture external id must be greater than zero")
	}
	if f.LeagueID <= 0 {
		return fmt.Errorf("fixture league reference is required")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture team references are required")
	}
	if f.KickoffAt.IsZero() {
		return fmt.Errorf("fixture kickoff_at is required")
	}

	return nil
}
