package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-catalog/internal/domain/fixture"
	"github.com/riskibarqy/matchday-catalog/internal/domain/generation"
	"github.com/riskibarqy/matchday-catalog/internal/domain/league"
	"github.com/riskibarqy/matchday-catalog/internal/domain/team"
	qb "github.com/riskibarqy/matchday-catalog/internal/platform/querybuilder"
)

// purgeOrder lists synced tables children first so foreign keys hold while
// deleting.
var purgeOrder = []string{"highlights", "fixtures", "teams", "leagues"}

type GenerationRepository struct {
	db *sqlx.DB
}

func NewGenerationRepository(db *sqlx.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) Replace(ctx context.Context, build generation.BuildFunc) (generation.PurgeStats, error) {
	if build == nil {
		return generation.PurgeStats{}, fmt.Errorf("generation build func is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return generation.PurgeStats{}, fmt.Errorf("begin tx for generation replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stats, err := purgeGeneration(ctx, tx)
	if err != nil {
		return generation.PurgeStats{}, err
	}
	if err := build(ctx, &txWriter{tx: tx}); err != nil {
		return generation.PurgeStats{}, fmt.Errorf("build generation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return generation.PurgeStats{}, fmt.Errorf("commit generation replace: %w", err)
	}

	return stats, nil
}

func (r *GenerationRepository) Counts(ctx context.Context) (generation.Counts, error) {
	const countQuery = `
SELECT
    (SELECT COUNT(*) FROM leagues) AS leagues,
    (SELECT COUNT(*) FROM teams) AS teams,
    (SELECT COUNT(*) FROM fixtures) AS fixtures`

	var out generation.Counts
	if err := r.db.QueryRowxContext(ctx, countQuery).Scan(&out.Leagues, &out.Teams, &out.Fixtures); err != nil {
		return generation.Counts{}, fmt.Errorf("count synced rows: %w", err)
	}
	return out, nil
}

func purgeGeneration(ctx context.Context, tx *sqlx.Tx) (generation.PurgeStats, error) {
	deleted := make(map[string]int64, len(purgeOrder))
	for _, table := range purgeOrder {
		query, args, err := qb.DeleteFrom(table).ToSQL()
		if err != nil {
			return generation.PurgeStats{}, fmt.Errorf("build purge %s query: %w", table, err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return generation.PurgeStats{}, fmt.Errorf("purge %s: %w", table, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return generation.PurgeStats{}, fmt.Errorf("purge %s rows affected: %w", table, err)
		}
		deleted[table] = affected
	}

	return generation.PurgeStats{
		Highlights: deleted["highlights"],
		Fixtures:   deleted["fixtures"],
		Teams:      deleted["teams"],
		Leagues:    deleted["leagues"],
	}, nil
}

type txWriter struct {
	tx *sqlx.Tx
}

func (w *txWriter) InsertLeague(ctx context.Context, item league.League) (league.League, error) {
	model := leagueTableModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Country:    item.Country,
		LogoURL:    toNullString(item.LogoURL),
	}
	if item.Season > 0 {
		model.Season = sql.NullInt64{Int64: int64(item.Season), Valid: true}
	}

	id, err := w.insertReturningID(ctx, "leagues", model)
	if err != nil {
		return league.League{}, fmt.Errorf("insert league external_id=%d: %w", item.ExternalID, err)
	}
	item.ID = id
	return item, nil
}

func (w *txWriter) InsertTeam(ctx context.Context, item team.Team) (team.Team, error) {
	model := teamTableModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		LogoURL:    toNullString(item.LogoURL),
	}

	id, err := w.insertReturningID(ctx, "teams", model)
	if err != nil {
		return team.Team{}, fmt.Errorf("insert team external_id=%d: %w", item.ExternalID, err)
	}
	item.ID = id
	return item, nil
}

func (w *txWriter) InsertFixture(ctx context.Context, item fixture.Fixture) (fixture.Fixture, error) {
	model := fixtureTableModel{
		ExternalID:        item.ExternalID,
		LeagueID:          item.LeagueID,
		HomeTeamID:        item.HomeTeamID,
		AwayTeamID:        item.AwayTeamID,
		KickoffAt:         item.KickoffAt.UTC(),
		StatusShort:       item.Status.Short,
		StatusDescription: item.Status.Description,
		IsLive:            item.Status.IsLive,
		Elapsed:           intPtrToNullInt64(item.Elapsed),
		HomeGoals:         intPtrToNullInt64(item.HomeGoals),
		AwayGoals:         intPtrToNullInt64(item.AwayGoals),
		Venue:             toNullString(item.Venue),
		Referee:           toNullString(item.Referee),
	}

	id, err := w.insertReturningID(ctx, "fixtures", model)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("insert fixture external_id=%d: %w", item.ExternalID, err)
	}
	item.ID = id
	return item, nil
}

func (w *txWriter) insertReturningID(ctx context.Context, table string, model any) (int64, error) {
	query, args, err := qb.InsertModel(table, model, "id")
	if err != nil {
		return 0, fmt.Errorf("build insert %s query: %w", table, err)
	}

	var id int64
	if err := w.tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("duplicate row in %s: %w", table, err)
		}
		return 0, err
	}
	return id, nil
}
