package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/contribution"

	"gorm.io/gorm"
)

type ContributionRepository struct{ db *gorm.DB }

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

func (r *ContributionRepository) Create(ctx context.Context, c *contribution.Contribution) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContributionRepository) Save(ctx context.Context, c *contribution.Contribution) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContributionRepository) GetByID(ctx context.Context, id string) (*contribution.Contribution, error) {
	return first[contribution.Contribution](r.db.WithContext(ctx).Where("id = ?", id), contribution.ErrNotFound)
}

func (r *ContributionRepository) GetByIDForUpdate(ctx context.Context, id string) (*contribution.Contribution, error) {
	q := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id)
	return first[contribution.Contribution](q, contribution.ErrNotFound)
}

func (r *ContributionRepository) UpdateSessionID(ctx context.Context, id, sessionID string) error {
	res := r.db.WithContext(ctx).
		Model(&contribution.Contribution{}).
		Where("id = ?", id).
		Update("provider_session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contribution.ErrNotFound
	}
	return nil
}

func (r *ContributionRepository) SumPaidByCampaign(ctx context.Context, campaignID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&contribution.Contribution{}).
		Where("campaign_id = ? AND status = ?", campaignID, contribution.StatusPaid).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ContributionRepository) ListByContributor(ctx context.Context, contributorID string) ([]contribution.Contribution, error) {
	var out []contribution.Contribution
	err := r.db.WithContext(ctx).
		Where("contributor_id = ?", contributorID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
