package fixture

import "context"

// Repository persists canonical fixture records.
type Repository interface {
	UpsertFixtures(ctx context.Context, records []Record) error
	QueryFixtures(ctx context.Context, filter Filter) ([]Record, error)
}
