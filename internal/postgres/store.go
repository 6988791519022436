// Package postgres implements the service store interfaces on PostgreSQL
// via pgx. Each store is a thin mapping layer; loosely-typed rows never
// leak past this package.
package postgres

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the individual stores over one connection pool.
type Store struct {
	Orders     *OrderStore
	Addresses  *AddressStore
	Businesses *BusinessStore
	Quotes     *QuoteStore
}

// NewStore creates all stores over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Orders:     &OrderStore{pool: pool},
		Addresses:  &AddressStore{pool: pool},
		Businesses: &BusinessStore{pool: pool},
		Quotes:     &QuoteStore{pool: pool},
	}
}

// =============================================================================
// pgtype mapping helpers
// =============================================================================

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDPtr(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func uuidPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

func pgTextPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
