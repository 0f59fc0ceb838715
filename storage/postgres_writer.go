package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"propertyfinder-monitor/models"
)

// PostgresWriter is the optional long-term listing archive. The dedup
// contract lives in SeenStore; this table only keeps history for analysis.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(databaseURL string) (*PostgresWriter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS listings (
		id BIGSERIAL PRIMARY KEY,
		listing_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		price BIGINT,
		price_display TEXT,
		size INTEGER,
		size_display TEXT,
		bedrooms INTEGER,
		bathrooms INTEGER,
		building TEXT,
		location TEXT,
		url TEXT NOT NULL,
		image_url TEXT,
		scraped_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);
	CREATE INDEX IF NOT EXISTS idx_listings_building ON listings(building);
	`

	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (w *PostgresWriter) WriteBatch(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO listings (listing_id, title, price, price_display, size, size_display,
		bedrooms, bathrooms, building, location, url, image_url, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (listing_id) DO NOTHING;
	`

	enqueued := 0
	for _, l := range listings {
		id := strings.TrimSpace(l.ID)
		url := strings.TrimSpace(l.URL)
		if id == "" || url == "" {
			continue
		}

		batch.Queue(
			insertSQL,
			id,
			strings.TrimSpace(l.Title),
			l.Price,
			strings.TrimSpace(l.PriceDisplay),
			l.Size,
			strings.TrimSpace(l.SizeDisplay),
			l.Bedrooms,
			l.Bathrooms,
			strings.TrimSpace(l.Building),
			strings.TrimSpace(l.Location),
			url,
			strings.TrimSpace(l.ImageURL),
			l.ScrapedAt,
		)
		enqueued++
	}

	if enqueued == 0 {
		return nil
	}

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}

	return nil
}
