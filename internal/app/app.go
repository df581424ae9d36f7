// Package app builds the shared dependency graph for the api server and the
// operator CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gorm.io/gorm"

	mysqlrepo "p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/storage"
	"p2p-lending-backend/internal/infrastructure/db"
	paymentinfra "p2p-lending-backend/internal/infrastructure/payment"
	storageinfra "p2p-lending-backend/internal/infrastructure/storage"
	"p2p-lending-backend/internal/usecase/borrow"
	"p2p-lending-backend/internal/usecase/campaign"
	"p2p-lending-backend/internal/usecase/contribution"
	"p2p-lending-backend/internal/usecase/dashboard"
	"p2p-lending-backend/internal/usecase/repayment"
)

// NewLogger returns a JSON slog logger at the configured level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(level)))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// InstallLogger builds the logger with NewLogger and makes it the process
// default, so code logging through slog.Default() shares its handler and level.
func InstallLogger(w io.Writer, level string) *slog.Logger {
	log := NewLogger(w, level)
	slog.SetDefault(log)
	return log
}

// App holds the usecases wired to one database connection.
type App struct {
	DB        *gorm.DB
	Presigner storage.Presigner
	Provider  payment.Provider

	Borrows       *borrow.Usecase
	Documents     *borrow.DocumentUsecase
	Campaigns     *campaign.Usecase
	Contributions *contribution.Usecase
	Repayments    *repayment.Usecase
	Dashboard     *dashboard.Usecase
}

// Open connects to the database and builds every usecase. When presign is
// false no storage client is created (the CLI never uploads).
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger, presign bool) (*App, error) {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.LogLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return New(ctx, gdb, cfg, log, presign)
}

func New(ctx context.Context, gdb *gorm.DB, cfg *config.Config, log *slog.Logger, presign bool) (*App, error) {
	var presigner storage.Presigner = storageinfra.Placeholder{}
	if presign {
		p, err := storageinfra.NewPresigner(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		presigner = p
	}
	provider := paymentinfra.NewStripe(cfg.Stripe)

	requests := mysqlrepo.NewBorrowRequestRepository(gdb)
	campaigns := mysqlrepo.NewCampaignRepository(gdb)
	contributions := mysqlrepo.NewContributionRepository(gdb)
	tx := mysqlrepo.NewGormUoW(gdb)

	a := &App{
		DB:            gdb,
		Presigner:     presigner,
		Provider:      provider,
		Borrows:       borrow.NewUsecase(requests, tx),
		Documents:     borrow.NewDocumentUsecase(requests, tx, presigner, cfg.S3.Prefix),
		Campaigns:     campaign.NewUsecase(campaigns, tx),
		Contributions: contribution.NewUsecase(campaigns, contributions, tx, provider),
		Repayments:    repayment.NewUsecase(requests, mysqlrepo.NewRepaymentRepository(gdb), tx, provider),
		Dashboard:     dashboard.NewUsecase(requests, campaigns, contributions),
	}
	a.Borrows.SetLogger(log.With("component", "borrow"))
	a.Documents.SetLogger(log.With("component", "documents"))
	a.Campaigns.SetLogger(log.With("component", "campaign"))
	a.Contributions.SetLogger(log.With("component", "contribution"))
	a.Repayments.SetLogger(log.With("component", "repayment"))
	a.Dashboard.SetLogger(log.With("component", "dashboard"))
	return a, nil
}

// Migrate creates or updates the schema.
func (a *App) Migrate() error { return mysqlrepo.AutoMigrate(a.DB) }

func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Fatal logs err and exits with status 1.
func Fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}
