package settings

import "context"

type Repository interface {
	Get(ctx context.Context) (*CompanySettings, error)
	Upsert(ctx context.Context, s *CompanySettings) error
}
