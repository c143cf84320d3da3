package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday-catalog/internal/domain/generation"
	"github.com/riskibarqy/matchday-catalog/internal/domain/league"
	"github.com/riskibarqy/matchday-catalog/internal/domain/team"
)

// entityResolver hands out one persisted League and Team per external ID.
// It lives for a single pass and must not be shared between passes.
type entityResolver struct {
	writer  generation.Writer
	leagues map[int64]league.League
	teams   map[int64]team.Team
}

func newEntityResolver(writer generation.Writer) *entityResolver {
	return &entityResolver{
		writer:  writer,
		leagues: make(map[int64]league.League),
		teams:   make(map[int64]team.Team),
	}
}

func (r *entityResolver) resolveLeague(ctx context.Context, info ExternalLeagueInfo) (league.League, error) {
	if cached, ok := r.leagues[info.ID]; ok {
		return cached, nil
	}

	item := league.League{
		ExternalID: info.ID,
		Name:       strings.TrimSpace(info.Name),
		Country:    strings.TrimSpace(info.Country),
		LogoURL:    strings.TrimSpace(info.Logo),
		Season:     info.Season,
	}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: league external_id=%d: %v", ErrInvalidInput, info.ID, err)
	}

	stored, err := r.writer.InsertLeague(ctx, item)
	if err != nil {
		return league.League{}, fmt.Errorf("insert league external_id=%d: %w", info.ID, err)
	}
	r.leagues[info.ID] = stored
	return stored, nil
}

func (r *entityResolver) resolveTeam(ctx context.Context, info ExternalTeamInfo) (team.Team, error) {
	if cached, ok := r.teams[info.ID]; ok {
		return cached, nil
	}

	item := team.Team{
		ExternalID: info.ID,
		Name:       strings.TrimSpace(info.Name),
		LogoURL:    strings.TrimSpace(info.Logo),
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: team external_id=%d: %v", ErrInvalidInput, info.ID, err)
	}

	stored, err := r.writer.InsertTeam(ctx, item)
	if err != nil {
		return team.Team{}, fmt.Errorf("insert team external_id=%d: %w", info.ID, err)
	}
	r.teams[info.ID] = stored
	return stored, nil
}

func (r *entityResolver) counts() (leagues, teams int) {
	return len(r.leagues), len(r.teams)
}
