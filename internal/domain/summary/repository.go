package summary

import "context"

type Repository interface {
	// UpsertMany replaces summaries by match id.
	UpsertMany(ctx context.Context, summaries []MatchSummary) error
	GetByMatchID(ctx context.Context, matchID string) (MatchSummary, bool, error)
	// List returns matching summaries, most recent kickoff first.
	List(ctx context.Context, filter Filter) ([]MatchSummary, error)
}
