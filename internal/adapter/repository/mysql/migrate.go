package mysql

import (
	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/contribution"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/repayment"

	"gorm.io/gorm"
)

// Models lists every table owned by this service.
func Models() []any {
	return []any{
		&borrow.BorrowRequest{},
		&borrow.Document{},
		&campaign.Campaign{},
		&contribution.Contribution{},
		&repayment.ScheduleItem{},
		&repayment.Payment{},
		&repayment.Setup{},
		&ledger.Entry{},
	}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
