package uow

import (
	"context"

	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/contribution"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/repayment"
)

// Repos are bound to one transaction.
type Repos struct {
	BorrowRequests borrow.Repository
	Documents      borrow.DocumentRepository
	Campaigns      campaign.Repository
	Contributions  contribution.Repository
	Repayments     repayment.Repository
	Ledger         ledger.Repository
}

// UnitOfWork runs fn in one transaction; a returned error or panic rolls
// everything back. Rows are locked child first (contribution or payment),
// then borrow request, then campaign.
type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the borrow request first, then pass it in
	WithinBorrowRequestTx(ctx context.Context, borrowRequestID string, fn func(r Repos, br *borrow.BorrowRequest) error) error
	// lock the contribution first, then pass it in
	WithinContributionTx(ctx context.Context, contributionID string, fn func(r Repos, c *contribution.Contribution) error) error
}
