package embedding

import "context"

type Repository interface {
	Upsert(ctx context.Context, vector Vector) error
	// ListByMatchIDs returns stored vectors keyed by match id. Unknown ids
	// are absent from the map.
	ListByMatchIDs(ctx context.Context, matchIDs []string) (map[string]Vector, error)
	// ListStates is ListByMatchIDs without Values, for presence and
	// staleness checks.
	ListStates(ctx context.Context, matchIDs []string) (map[string]Vector, error)
	// Search ranks candidates by CosineDistance to query, nearest first.
	Search(ctx context.Context, query []float32, candidates []string, limit int) ([]Hit, error)
}
