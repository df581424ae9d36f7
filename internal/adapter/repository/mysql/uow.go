package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/contribution"
	"p2p-lending-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		BorrowRequests: &BorrowRequestRepository{db: tx},
		Documents:      &DocumentRepository{db: tx},
		Campaigns:      &CampaignRepository{db: tx},
		Contributions:  &ContributionRepository{db: tx},
		Repayments:     &RepaymentRepository{db: tx},
		Ledger:         &LedgerRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinBorrowRequestTx(ctx context.Context, borrowRequestID string, fn func(r uow.Repos, br *borrow.BorrowRequest) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		br, err := r.BorrowRequests.GetByIDForUpdate(ctx, borrowRequestID)
		if err != nil {
			return err
		}
		return fn(r, br)
	})
}

func (u *GormUoW) WithinContributionTx(ctx context.Context, contributionID string, fn func(r uow.Repos, c *contribution.Contribution) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		c, err := r.Contributions.GetByIDForUpdate(ctx, contributionID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}
