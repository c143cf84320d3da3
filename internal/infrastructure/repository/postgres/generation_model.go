package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID         int64          `db:"id,readonly"`
	ExternalID int64          `db:"external_id"`
	Name       string         `db:"name"`
	Country    string         `db:"country"`
	LogoURL    sql.NullString `db:"logo_url"`
	Season     sql.NullInt64  `db:"season"`
}

type teamTableModel struct {
	ID         int64          `db:"id,readonly"`
	ExternalID int64          `db:"external_id"`
	Name       string         `db:"name"`
	LogoURL    sql.NullString `db:"logo_url"`
}

type fixtureTableModel struct {
	ID                int64          `db:"id,readonly"`
	ExternalID        int64          `db:"external_id"`
	LeagueID          int64          `db:"league_id"`
	HomeTeamID        int64          `db:"home_team_id"`
	AwayTeamID        int64          `db:"away_team_id"`
	KickoffAt         time.Time      `db:"kickoff_at"`
	StatusShort       string         `db:"status_short"`
	StatusDescription string         `db:"status_description"`
	IsLive            bool           `db:"is_live"`
	Elapsed           sql.NullInt64  `db:"elapsed"`
	HomeGoals         sql.NullInt64  `db:"home_goals"`
	AwayGoals         sql.NullInt64  `db:"away_goals"`
	Venue             sql.NullString `db:"venue"`
	Referee           sql.NullString `db:"referee"`
}

func toNullString(value string) sql.NullString {
	if ptr := optionalString(value); ptr != nil {
		return sql.NullString{String: *ptr, Valid: true}
	}
	return sql.NullString{}
}
