package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/service"
)

// QuoteStore implements service.QuoteSource on PostgreSQL.
//
// Quotes are written by the back-office review workflow; checkout only
// reads them, scoped to the requesting user.
type QuoteStore struct {
	pool *pgxpool.Pool
}

// NewQuoteStore creates a QuoteStore.
func NewQuoteStore(pool *pgxpool.Pool) *QuoteStore {
	return &QuoteStore{pool: pool}
}

// GetQuote loads a quote with its items. Returns nil when the quote does
// not exist or belongs to another user.
func (s *QuoteStore) GetQuote(ctx context.Context, quoteID, userID string) (*service.QuoteDetail, error) {
	id, err := uuid.Parse(quoteID)
	if err != nil {
		// Malformed IDs behave like missing quotes.
		return nil, nil
	}

	quote := &service.QuoteDetail{ID: quoteID}
	err = s.pool.QueryRow(ctx, `
		SELECT clerk_user_id, status, discount
		FROM quotes
		WHERE id = $1 AND clerk_user_id = $2`,
		pgUUID(id), userID,
	).Scan(&quote.UserID, &quote.Status, &quote.Discount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT product_id, title, quantity, unit_price
		FROM quote_items
		WHERE quote_id = $1
		ORDER BY title`,
		pgUUID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query quote items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CheckoutItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan quote item: %w", err)
		}
		item.Subtotal = item.UnitPrice * int64(item.Quantity)
		quote.Items = append(quote.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quote, nil
}
