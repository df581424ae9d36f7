package uowmock

import (
	"context"
	"errors"

	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/contribution"
	"p2p-lending-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn              func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinBorrowRequestTxFn func(ctx context.Context, borrowRequestID string, fn func(r uow.Repos, br *borrow.BorrowRequest) error) error
	WithinContributionTxFn  func(ctx context.Context, contributionID string, fn func(r uow.Repos, c *contribution.Contribution) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every transaction body directly against repos, loading
// the locked row through the matching repository first.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinBorrowRequestTxFn: func(ctx context.Context, brID string, fn func(uow.Repos, *borrow.BorrowRequest) error) error {
			br, err := repos.BorrowRequests.GetByIDForUpdate(ctx, brID)
			if err != nil {
				return err
			}
			return fn(repos, br)
		},
		WithinContributionTxFn: func(ctx context.Context, cID string, fn func(uow.Repos, *contribution.Contribution) error) error {
			c, err := repos.Contributions.GetByIDForUpdate(ctx, cID)
			if err != nil {
				return err
			}
			return fn(repos, c)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBorrowRequestTx(ctx context.Context, borrowRequestID string, fn func(r uow.Repos, br *borrow.BorrowRequest) error) error {
	if m.WithinBorrowRequestTxFn != nil {
		return m.WithinBorrowRequestTxFn(ctx, borrowRequestID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinContributionTx(ctx context.Context, contributionID string, fn func(r uow.Repos, c *contribution.Contribution) error) error {
	if m.WithinContributionTxFn != nil {
		return m.WithinContributionTxFn(ctx, contributionID, fn)
	}
	return errUnimplemented
}
