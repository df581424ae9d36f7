package contribution

import "context"

type Repository interface {
	Create(ctx context.Context, c *Contribution) error
	GetByID(ctx context.Context, id string) (*Contribution, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Contribution, error)
	UpdateSessionID(ctx context.Context, id, sessionID string) error
	Save(ctx context.Context, c *Contribution) error
	// SumPaidByCampaign is the source of truth for Campaign.AmountPooledCents.
	SumPaidByCampaign(ctx context.Context, campaignID string) (int64, error)
	// ListByContributor is ordered newest first.
	ListByContributor(ctx context.Context, contributorID string) ([]Contribution, error)
}
