package postgres

import (
	"context"
	"database/sql"

	"github.com/billbook/billbook/internal/domain/settings"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/cockroachdb/errors"
)

type settingsRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSettingsRepository(db *postgres.DB, logger *logger.Logger) settings.Repository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) Get(ctx context.Context) (*settings.CompanySettings, error) {
	query := `
		SELECT
			seller_name, regd_address, offc_address, gst_number, phone, email,
			bank_name, account_name, account_number, ifsc_code, branch, updated_at
		FROM company_settings
		WHERE id = 1`

	var s settings.CompanySettings
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Company settings not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.FromStorage(err, "Failed to fetch company settings")
	}
	return &s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *settings.CompanySettings) error {
	query := `
		INSERT INTO company_settings (
			id, seller_name, regd_address, offc_address, gst_number, phone, email,
			bank_name, account_name, account_number, ifsc_code, branch, updated_at
		) VALUES (
			1, :seller_name, :regd_address, :offc_address, :gst_number, :phone, :email,
			:bank_name, :account_name, :account_number, :ifsc_code, :branch, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			seller_name = EXCLUDED.seller_name,
			regd_address = EXCLUDED.regd_address,
			offc_address = EXCLUDED.offc_address,
			gst_number = EXCLUDED.gst_number,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			bank_name = EXCLUDED.bank_name,
			account_name = EXCLUDED.account_name,
			account_number = EXCLUDED.account_number,
			ifsc_code = EXCLUDED.ifsc_code,
			branch = EXCLUDED.branch,
			updated_at = EXCLUDED.updated_at`

	r.logger.Debugw("saving company settings", "seller_name", s.SellerName)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, s); err != nil {
		return ierr.FromStorage(err, "Failed to save company settings")
	}
	return nil
}
