package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lillian1228/hsa-ai-assistant/internal/database"
	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// PostgresApprovedItemRepository implements ApprovedItemRepository using PostgreSQL
type PostgresApprovedItemRepository struct {
	db   *database.PostgresDB
	pool *pgxpool.Pool
}

// NewPostgresApprovedItemRepository creates a new PostgreSQL approved item repository
func NewPostgresApprovedItemRepository(db *database.PostgresDB) *PostgresApprovedItemRepository {
	return &PostgresApprovedItemRepository{
		db:   db,
		pool: db.GetPool(),
	}
}

// EnsureSchema creates the approved_items table if it does not exist
func (r *PostgresApprovedItemRepository) EnsureSchema(ctx context.Context) error {
	err := r.db.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS approved_items (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price DOUBLE PRECISION NOT NULL,
				quantity INTEGER NOT NULL DEFAULT 1,
				store_name TEXT NOT NULL,
				date TEXT NOT NULL,
				image_url TEXT NOT NULL DEFAULT '',
				payment_card TEXT NOT NULL DEFAULT '',
				card_last_four_digit TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create approved_items table: %w", err)
	}
	return nil
}

// InsertApprovedItems stores approved items, skipping exact duplicates. An
// item is a duplicate when another row already matches it on name,
// description, price, quantity, store name, date and image URL. Returns the
// number of rows inserted.
func (r *PostgresApprovedItemRepository) InsertApprovedItems(ctx context.Context, items []domain.ApprovedItem) (int, error) {
	inserted := 0
	for _, item := range items {
		var count int
		err := r.pool.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM approved_items
			WHERE name = $1 AND description = $2 AND price = $3 AND quantity = $4
			  AND store_name = $5 AND date = $6 AND image_url = $7
		`, item.Name, item.Description, item.Price, item.Quantity,
			item.StoreName, item.Date, item.ImageURL).Scan(&count)
		if err != nil {
			return inserted, fmt.Errorf("failed to check for duplicate item: %w", err)
		}

		if count > 0 {
			log.Printf("Skipping duplicate approved item: %s (%s, %s)", item.Name, item.StoreName, item.Date)
			continue
		}

		_, err = r.pool.Exec(ctx, `
			INSERT INTO approved_items
				(name, description, price, quantity, store_name, date, image_url, payment_card, card_last_four_digit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, item.Name, item.Description, item.Price, item.Quantity,
			item.StoreName, item.Date, item.ImageURL, item.PaymentCard, item.CardLastFourDigit)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert approved item: %w", err)
		}
		inserted++
	}

	return inserted, nil
}

// GetAllItems retrieves every approved item, newest first
func (r *PostgresApprovedItemRepository) GetAllItems(ctx context.Context) ([]domain.ApprovedItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price, quantity, store_name, date, image_url,
		       payment_card, card_last_four_digit, created_at
		FROM approved_items
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved items: %w", err)
	}
	defer rows.Close()

	return scanApprovedItems(rows)
}

// GetItemsByDateRange retrieves approved items within the inclusive date
// range. Dates are compared as strings, which is correct for the YYYY-MM-DD
// format the assistant stores.
func (r *PostgresApprovedItemRepository) GetItemsByDateRange(ctx context.Context, startDate, endDate string) ([]domain.ApprovedItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price, quantity, store_name, date, image_url,
		       payment_card, card_last_four_digit, created_at
		FROM approved_items
		WHERE date >= $1 AND date <= $2
		ORDER BY created_at DESC, id DESC
	`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved items by date range: %w", err)
	}
	defer rows.Close()

	return scanApprovedItems(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanApprovedItems(rows rowScanner) ([]domain.ApprovedItem, error) {
	items := []domain.ApprovedItem{}
	for rows.Next() {
		var item domain.ApprovedItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity,
			&item.StoreName, &item.Date, &item.ImageURL,
			&item.PaymentCard, &item.CardLastFourDigit, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approved item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approved items: %w", err)
	}

	return items, nil
}
