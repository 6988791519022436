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

// AddressStore implements service.AddressStore on PostgreSQL.
//
// Default exclusivity for a (business_id, address_type) pair is enforced by
// clearing sibling defaults and writing the new default inside a single
// transaction, so concurrent writers cannot leave zero or two defaults.
type AddressStore struct {
	pool *pgxpool.Pool
}

// NewAddressStore creates an AddressStore.
func NewAddressStore(pool *pgxpool.Pool) *AddressStore {
	return &AddressStore{pool: pool}
}

const addressColumns = `
	id, business_id, clerk_user_id, address_type,
	contact_name, contact_phone, address_line1, address_line2,
	city, state, postal_code, country, gst_number,
	is_default, is_active, created_at, updated_at`

// ListByBusiness returns active addresses, default-first then newest-first.
func (s *AddressStore) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.BusinessAddress, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+addressColumns+`
		FROM business_addresses
		WHERE business_id = $1 AND is_active
		ORDER BY is_default DESC, created_at DESC`,
		pgUUID(businessID))
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addrs []domain.BusinessAddress
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addrs = append(addrs, *addr)
	}
	return addrs, rows.Err()
}

// GetIndividualDefault returns the user's single default address record.
// Individual addresses live in the same table with a NULL business_id.
func (s *AddressStore) GetIndividualDefault(ctx context.Context, userID string) (*domain.BusinessAddress, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+addressColumns+`
		FROM business_addresses
		WHERE clerk_user_id = $1 AND business_id IS NULL AND is_default AND is_active
		LIMIT 1`,
		userID)

	addr, err := scanAddress(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get individual address: %w", err)
	}
	return addr, nil
}

// Create inserts an address, clearing sibling defaults in the same
// transaction when the new address is the default.
func (s *AddressStore) Create(ctx context.Context, addr domain.BusinessAddress) (*domain.BusinessAddress, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if addr.IsDefault {
		_, err = tx.Exec(ctx, `
			UPDATE business_addresses
			SET is_default = false, updated_at = now()
			WHERE business_id = $1 AND address_type = $2 AND is_default`,
			pgUUID(addr.BusinessID), string(addr.AddressType))
		if err != nil {
			return nil, fmt.Errorf("failed to clear sibling defaults: %w", err)
		}
	}

	var createdAt, updatedAt pgtype.Timestamptz
	err = tx.QueryRow(ctx, `
		INSERT INTO business_addresses (
			id, business_id, clerk_user_id, address_type,
			contact_name, contact_phone, address_line1, address_line2,
			city, state, postal_code, country, gst_number,
			is_default, is_active
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15
		)
		RETURNING created_at, updated_at`,
		pgUUID(addr.ID),
		pgUUID(addr.BusinessID),
		addr.UserID,
		string(addr.AddressType),
		addr.ContactName,
		addr.ContactPhone,
		addr.AddressLine1,
		addr.AddressLine2,
		addr.City,
		addr.State,
		addr.PostalCode,
		addr.Country,
		addr.GSTNumber,
		addr.IsDefault,
		addr.IsActive,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit address insert: %w", err)
	}

	addr.CreatedAt = createdAt.Time
	addr.UpdatedAt = updatedAt.Time
	return &addr, nil
}

// Update applies a whitelisted patch to the caller's own active address.
// A row owned by another user matches zero rows, same as a missing one.
func (s *AddressStore) Update(ctx context.Context, userID string, addressID uuid.UUID, patch domain.AddressPatch) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if patch.IsDefault != nil && *patch.IsDefault {
		// Clear siblings inside the same transaction, scoped through the
		// target row so ownership is still enforced.
		_, err = tx.Exec(ctx, `
			UPDATE business_addresses
			SET is_default = false, updated_at = now()
			WHERE id <> $1
			  AND is_default
			  AND (business_id, address_type) IN (
				SELECT business_id, address_type
				FROM business_addresses
				WHERE id = $1 AND clerk_user_id = $2 AND is_active
			  )`,
			pgUUID(addressID), userID)
		if err != nil {
			return 0, fmt.Errorf("failed to clear sibling defaults: %w", err)
		}
	}

	query, args := buildAddressUpdate(addressID, userID, patch)
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit address update: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SoftDelete deactivates the caller's own address.
func (s *AddressStore) SoftDelete(ctx context.Context, userID string, addressID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE business_addresses
		SET is_active = false, is_default = false, updated_at = now()
		WHERE id = $1 AND clerk_user_id = $2 AND is_active`,
		pgUUID(addressID), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete address: %w", err)
	}
	return tag.RowsAffected(), nil
}

// buildAddressUpdate assembles the SET clause from the whitelisted patch.
func buildAddressUpdate(addressID uuid.UUID, userID string, patch domain.AddressPatch) (string, []any) {
	set := []string{"updated_at = now()"}
	args := []any{pgUUID(addressID), userID}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.AddressType != nil {
		add("address_type", string(*patch.AddressType))
	}
	if patch.ContactName != nil {
		add("contact_name", *patch.ContactName)
	}
	if patch.ContactPhone != nil {
		add("contact_phone", *patch.ContactPhone)
	}
	if patch.AddressLine1 != nil {
		add("address_line1", *patch.AddressLine1)
	}
	if patch.AddressLine2 != nil {
		add("address_line2", *patch.AddressLine2)
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.State != nil {
		add("state", *patch.State)
	}
	if patch.PostalCode != nil {
		add("postal_code", *patch.PostalCode)
	}
	if patch.Country != nil {
		add("country", *patch.Country)
	}
	if patch.GSTNumber != nil {
		add("gst_number", *patch.GSTNumber)
	}
	if patch.IsDefault != nil {
		add("is_default", *patch.IsDefault)
	}

	query := fmt.Sprintf(`
		UPDATE business_addresses
		SET %s
		WHERE id = $1 AND clerk_user_id = $2 AND is_active`,
		joinSet(set))
	return query, args
}

func joinSet(set []string) string {
	out := set[0]
	for _, s := range set[1:] {
		out += ", " + s
	}
	return out
}

// scanAddress maps one row in addressColumns order.
func scanAddress(row pgx.Row) (*domain.BusinessAddress, error) {
	var (
		addr                 domain.BusinessAddress
		id, businessID       pgtype.UUID
		addressType          string
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &businessID, &addr.UserID, &addressType,
		&addr.ContactName, &addr.ContactPhone, &addr.AddressLine1, &addr.AddressLine2,
		&addr.City, &addr.State, &addr.PostalCode, &addr.Country, &addr.GSTNumber,
		&addr.IsDefault, &addr.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	addr.ID = uuid.UUID(id.Bytes)
	if businessID.Valid {
		addr.BusinessID = uuid.UUID(businessID.Bytes)
	}
	addr.AddressType = domain.AddressType(addressType)
	addr.CreatedAt = createdAt.Time
	addr.UpdatedAt = updatedAt.Time
	return &addr, nil
}
