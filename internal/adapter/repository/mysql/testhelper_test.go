package mysql

import (
	"testing"
	"time"

	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/contribution"
	"p2p-lending-backend/pkg/id"
	"p2p-lending-backend/pkg/money"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema on a single connection.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeBorrowRequest(requester string, status borrow.Status) *borrow.BorrowRequest {
	return &borrow.BorrowRequest{
		ID:                   id.New(),
		RequesterID:          requester,
		Title:                "Bakery oven",
		Category:             "business",
		Reason:               "replace broken oven",
		AmountRequestedCents: 10000,
		Currency:             money.EUR,
		ExpectedReturnDays:   45,
		Status:               status,
	}
}

func makeCampaign(brID *string, needed int64, status campaign.Status) *campaign.Campaign {
	return &campaign.Campaign{
		ID:                 id.New(),
		BorrowRequestID:    brID,
		TitlePublic:        "Bakery oven",
		AmountNeededCents:  needed,
		ExpectedReturnDays: 45,
		ExpectedReturnDate: time.Now().UTC().AddDate(0, 0, 45),
		Currency:           money.EUR,
		Status:             status,
		Verified:           true,
	}
}

func makeContribution(campaignID string, amount int64, status contribution.Status) *contribution.Contribution {
	return &contribution.Contribution{
		ID:                id.New(),
		CampaignID:        campaignID,
		ContributorID:     "lender-1",
		AmountCents:       amount,
		Currency:          money.EUR,
		Status:            status,
		Provider:          "stripe",
		ProviderSessionID: "pending_" + id.New(),
	}
}
