package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

// RawEventRepository stores provider payloads and their parsed events. Rows
// are only ever inserted.
type RawEventRepository struct {
	db *sqlx.DB
}

func NewRawEventRepository(db *sqlx.DB) *RawEventRepository {
	return &RawEventRepository{db: db}
}

func (r *RawEventRepository) Insert(ctx context.Context, record rawevent.Record) (rawevent.InsertResult, error) {
	p, f := record.Payload, record.Fixture
	if p.Provider == "" || p.ProviderMatchID == "" {
		return "", fmt.Errorf("payload provider and match id are required")
	}

	result := rawevent.InsertCreated
	err := withTx(ctx, r.db, "insert raw payload", func(tx *sqlx.Tx) error {
		insert := psql.Insert("raw_payloads").
			Columns(
				"provider", "provider_match_id", "body", "body_hash", "competition", "kickoff_at",
				"home_provider_team_id", "home_team_name", "away_provider_team_id", "away_team_name",
				"home_score", "away_score",
			).
			Values(
				string(p.Provider), p.ProviderMatchID, p.Body, p.Hash, f.Competition, f.Kickoff.UTC(),
				f.Home.ProviderTeamID, f.Home.Name, f.Away.ProviderTeamID, f.Away.Name,
				f.HomeScore, f.AwayScore,
			).
			Suffix("ON CONFLICT (provider, provider_match_id) DO NOTHING")

		res, err := execBuilder(ctx, tx, insert, "insert raw payload")
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert raw payload rows affected: %w", err)
		}
		if affected == 0 {
			return r.compareStored(ctx, tx, p, &result)
		}
		return insertEvents(ctx, tx, p, record.Events)
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (r *RawEventRepository) compareStored(ctx context.Context, tx *sqlx.Tx, p rawevent.Payload, result *rawevent.InsertResult) error {
	query, args, err := psql.Select("body_hash").From("raw_payloads").
		Where(sq.Eq{"provider": string(p.Provider), "provider_match_id": p.ProviderMatchID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build select raw payload hash query: %w", err)
	}
	var stored string
	if err := tx.GetContext(ctx, &stored, query, args...); err != nil {
		return fmt.Errorf("select raw payload hash: %w", err)
	}
	if stored != p.Hash {
		return fmt.Errorf("%w: %s match %s", rawevent.ErrPayloadConflict, p.Provider, p.ProviderMatchID)
	}
	*result = rawevent.InsertUnchanged
	return nil
}

func insertEvents(ctx context.Context, tx *sqlx.Tx, p rawevent.Payload, events []rawevent.Event) error {
	for start := 0; start < len(events); start += insertChunk {
		end := min(start+insertChunk, len(events))
		insert := psql.Insert("raw_events").Columns(rawEventColumns...)
		for i, e := range events[start:end] {
			insert = insert.Values(
				string(p.Provider), p.ProviderMatchID, start+i, e.ProviderEventID, e.ProviderTeamID,
				e.ProviderPlayerID, string(e.Kind), e.Successful, e.Period, e.Minute, e.Second,
				e.X, e.Y, e.EndX, e.EndY, e.IsTouch, e.IsGoal, e.OnTarget, e.XG,
			)
		}
		if _, err := execBuilder(ctx, tx, insert, "insert raw events"); err != nil {
			return err
		}
	}
	return nil
}

func (r *RawEventRepository) GetFixture(ctx context.Context, provider rawevent.Provider, providerMatchID string) (rawevent.Fixture, bool, error) {
	query, args, err := psql.Select("*").From("raw_payloads").
		Where(sq.Eq{"provider": string(provider), "provider_match_id": providerMatchID}).
		ToSql()
	if err != nil {
		return rawevent.Fixture{}, false, fmt.Errorf("build get raw fixture query: %w", err)
	}

	var row rawPayloadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rawevent.Fixture{}, false, nil
		}
		return rawevent.Fixture{}, false, fmt.Errorf("get raw fixture: %w", err)
	}
	return row.fixture(), true, nil
}

func (r *RawEventRepository) ListFixtures(ctx context.Context, provider rawevent.Provider) ([]rawevent.Fixture, error) {
	query, args, err := psql.Select("*").From("raw_payloads").
		Where(sq.Eq{"provider": string(provider)}).
		OrderBy("provider_match_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list raw fixtures query: %w", err)
	}

	var rows []rawPayloadTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list raw fixtures: %w", err)
	}
	out := make([]rawevent.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.fixture())
	}
	return out, nil
}

func (r *RawEventRepository) ListEvents(ctx context.Context, provider rawevent.Provider, providerMatchID string) ([]rawevent.Event, error) {
	query, args, err := psql.Select(rawEventColumns...).From("raw_events").
		Where(sq.Eq{"provider": string(provider), "provider_match_id": providerMatchID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list raw events query: %w", err)
	}

	var rows []rawEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list raw events: %w", err)
	}
	out := make([]rawevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, rawevent.Event{
			Provider:         rawevent.Provider(row.Provider),
			ProviderMatchID:  row.ProviderMatchID,
			ProviderEventID:  row.ProviderEventID,
			ProviderTeamID:   row.ProviderTeamID,
			ProviderPlayerID: row.ProviderPlayerID,
			Kind:             rawevent.Kind(row.Kind),
			Successful:       row.Successful,
			Period:           row.Period,
			Minute:           row.Minute,
			Second:           row.Second,
			X:                row.X,
			Y:                row.Y,
			EndX:             floatPtr(row.EndX),
			EndY:             floatPtr(row.EndY),
			IsTouch:          row.IsTouch,
			IsGoal:           row.IsGoal,
			OnTarget:         row.OnTarget,
			XG:               floatPtr(row.XG),
		})
	}
	return out, nil
}

func (m rawPayloadTableModel) fixture() rawevent.Fixture {
	return rawevent.Fixture{
		Provider:        rawevent.Provider(m.Provider),
		ProviderMatchID: m.ProviderMatchID,
		Competition:     m.Competition,
		Kickoff:         m.KickoffAt.UTC(),
		Home:            rawevent.TeamRef{ProviderTeamID: m.HomeProviderTeamID, Name: m.HomeTeamName},
		Away:            rawevent.TeamRef{ProviderTeamID: m.AwayProviderTeamID, Name: m.AwayTeamName},
		HomeScore:       intPtr(m.HomeScore),
		AwayScore:       intPtr(m.AwayScore),
	}
}
