package teammetrics

import "context"

type Repository interface {
	// ReplaceByMatch swaps every row of matchID for rows in one step.
	ReplaceByMatch(ctx context.Context, matchID string, rows []TeamMatchMetrics) error
	ListByMatch(ctx context.Context, matchID string) ([]TeamMatchMetrics, error)
	List(ctx context.Context) ([]TeamMatchMetrics, error)
}
