package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/shared/apperr"

	"gorm.io/gorm"
)

var errCampaignExists = apperr.ConflictErr("a campaign already exists for this borrow request")

type CampaignRepository struct{ db *gorm.DB }

func NewCampaignRepository(db *gorm.DB) *CampaignRepository { return &CampaignRepository{db: db} }

func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return errCampaignExists
		}
		return err
	}
	return nil
}

func (r *CampaignRepository) Save(ctx context.Context, c *campaign.Campaign) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*campaign.Campaign, error) {
	return first[campaign.Campaign](r.db.WithContext(ctx).Where("id = ?", id), campaign.ErrNotFound)
}

func (r *CampaignRepository) GetByIDForUpdate(ctx context.Context, id string) (*campaign.Campaign, error) {
	return first[campaign.Campaign](forUpdate(r.db.WithContext(ctx)).Where("id = ?", id), campaign.ErrNotFound)
}

func (r *CampaignRepository) GetByBorrowRequestIDForUpdate(ctx context.Context, borrowRequestID string) (*campaign.Campaign, error) {
	q := forUpdate(r.db.WithContext(ctx)).Where("borrow_request_id = ?", borrowRequestID)
	return first[campaign.Campaign](q, campaign.ErrNotFound)
}

func (r *CampaignRepository) ListByIDs(ctx context.Context, ids []string) ([]campaign.Campaign, error) {
	var out []campaign.Campaign
	if len(ids) == 0 {
		return out, nil
	}
	return out, r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
}

func (r *CampaignRepository) ListByStatus(ctx context.Context, status campaign.Status, limit int) ([]campaign.Campaign, error) {
	var out []campaign.Campaign
	q := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}
