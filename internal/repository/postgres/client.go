package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/billbook/billbook/internal/domain/client"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/cockroachdb/errors"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type clientRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewClientRepository(db *postgres.DB, logger *logger.Logger) client.Repository {
	return &clientRepository{db: db, logger: logger}
}

func (r *clientRepository) Upsert(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (name, phone, address, gst)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			gst = EXCLUDED.gst,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`

	r.logger.Debugw("upserting client", "name", c.Name)

	err := r.db.GetQuerier(ctx).QueryRowxContext(ctx, query, c.Name, c.Phone, c.Address, c.GST).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return ierr.FromStorage(err, "Failed to save client")
	}
	return nil
}

func (r *clientRepository) GetByName(ctx context.Context, name string) (*client.Client, error) {
	query := `
		SELECT id, name, phone, address, gst, created_at, updated_at
		FROM clients
		WHERE name = $1`

	var c client.Client
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Client not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.FromStorage(err, "Failed to fetch client")
	}
	return &c, nil
}

func (r *clientRepository) Search(ctx context.Context, query string, limit int) ([]*client.Client, error) {
	sqlQuery := `
		SELECT id, name, phone, address, gst, created_at, updated_at
		FROM clients
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2`

	pattern := "%" + likeEscaper.Replace(query) + "%"

	clients := make([]*client.Client, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &clients, sqlQuery, pattern, limit); err != nil {
		return nil, ierr.FromStorage(err, "Failed to search clients")
	}
	return clients, nil
}
