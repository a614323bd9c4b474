package team

import "context"

// Repository describes canonical team persistence.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	UpsertMany(ctx context.Context, teams []Team) error
}
