package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cedarelevator/commerce/internal/domain"
)

// BusinessStore implements service.BusinessStore on PostgreSQL.
type BusinessStore struct {
	pool *pgxpool.Pool
}

// NewBusinessStore creates a BusinessStore.
func NewBusinessStore(pool *pgxpool.Pool) *BusinessStore {
	return &BusinessStore{pool: pool}
}

// GetProfileByUser returns the user's business profile, or nil when the
// account has none.
func (s *BusinessStore) GetProfileByUser(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	var (
		id      pgtype.UUID
		profile domain.BusinessProfile
	)

	err := s.pool.QueryRow(ctx, `
		SELECT id, clerk_user_id, company_name, gst_number, verification_status
		FROM business_profiles
		WHERE clerk_user_id = $1`,
		userID,
	).Scan(&id, &profile.UserID, &profile.CompanyName, &profile.GSTNumber, &profile.VerificationStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}

	profile.ID = uuid.UUID(id.Bytes)
	return &profile, nil
}
