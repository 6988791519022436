package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/checkout"
	"github.com/cedarelevator/commerce/internal/domain"
)

// AddressService manages business shipping and billing addresses.
// All operations are scoped to the calling identity; an address owned by a
// different user behaves exactly like one that does not exist.
type AddressService interface {
	// GetBusinessAddresses returns the caller's active business addresses,
	// default-first then newest-first.
	GetBusinessAddresses(ctx context.Context, identity domain.Identity) ([]domain.BusinessAddress, error)

	// GetIndividualAddress returns the caller's single default address.
	// Individual-tier accounts keep one address, not a list.
	GetIndividualAddress(ctx context.Context, identity domain.Identity) (*domain.BusinessAddress, error)

	// AddBusinessAddress creates an address for the caller's business.
	AddBusinessAddress(ctx context.Context, identity domain.Identity, input AddressInput) (*domain.BusinessAddress, error)

	// UpdateBusinessAddress applies a whitelisted patch to the caller's
	// own address.
	UpdateBusinessAddress(ctx context.Context, identity domain.Identity, addressID uuid.UUID, patch domain.AddressPatch) error

	// DeleteBusinessAddress soft-deletes the caller's own address.
	DeleteBusinessAddress(ctx context.Context, identity domain.Identity, addressID uuid.UUID) error
}

// AddressInput contains parameters for creating an address.
type AddressInput struct {
	BusinessID   string
	AddressType  domain.AddressType
	ContactName  string
	ContactPhone string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	GSTNumber    string
	IsDefault    bool
}

type addressService struct {
	addresses  AddressStore
	businesses BusinessStore
	cache      CacheInvalidator
	logger     *slog.Logger
}

// NewAddressService creates an AddressService. cache may be nil when no
// page-cache collaborator is wired.
func NewAddressService(addresses AddressStore, businesses BusinessStore, cache CacheInvalidator, logger *slog.Logger) AddressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &addressService{
		addresses:  addresses,
		businesses: businesses,
		cache:      cache,
		logger:     logger,
	}
}

func (s *addressService) GetBusinessAddresses(ctx context.Context, identity domain.Identity) ([]domain.BusinessAddress, error) {
	const op = "address.list"

	if !identity.Authenticated() {
		return nil, domain.Unauthorized(op, "Sign in to manage addresses")
	}

	profile, err := s.businesses.GetProfileByUser(ctx, identity.UserID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load business profile")
	}
	if profile == nil {
		// Individuals have no business address book.
		return []domain.BusinessAddress{}, nil
	}

	addrs, err := s.addresses.ListByBusiness(ctx, profile.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list addresses")
	}
	return addrs, nil
}

func (s *addressService) GetIndividualAddress(ctx context.Context, identity domain.Identity) (*domain.BusinessAddress, error) {
	const op = "address.get_individual"

	if !identity.Authenticated() {
		return nil, domain.Unauthorized(op, "Sign in to manage addresses")
	}

	addr, err := s.addresses.GetIndividualDefault(ctx, identity.UserID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load address")
	}
	if addr == nil {
		return nil, domain.NotFound(op, "address", identity.UserID)
	}
	return addr, nil
}

func (s *addressService) AddBusinessAddress(ctx context.Context, identity domain.Identity, input AddressInput) (*domain.BusinessAddress, error) {
	const op = "address.create"

	if !identity.Authenticated() {
		return nil, domain.Unauthorized(op, "Sign in to manage addresses")
	}

	businessID, err := uuid.Parse(input.BusinessID)
	if err != nil {
		return nil, ErrInvalidBusinessID
	}
	if !input.AddressType.Valid() {
		return nil, ErrInvalidAddressType
	}
	if input.ContactName == "" || input.AddressLine1 == "" || input.City == "" ||
		input.State == "" || input.PostalCode == "" || input.Country == "" {
		return nil, domain.Invalid(op, "missing required address fields")
	}

	addr := domain.BusinessAddress{
		ID:           uuid.New(),
		BusinessID:   businessID,
		UserID:       identity.UserID,
		AddressType:  input.AddressType,
		ContactName:  checkout.SanitizeText(input.ContactName),
		ContactPhone: checkout.SanitizeText(input.ContactPhone),
		AddressLine1: checkout.SanitizeText(input.AddressLine1),
		AddressLine2: checkout.SanitizeText(input.AddressLine2),
		City:         checkout.SanitizeText(input.City),
		State:        checkout.SanitizeText(input.State),
		PostalCode:   checkout.SanitizeText(input.PostalCode),
		Country:      checkout.SanitizeText(input.Country),
		GSTNumber:    checkout.SanitizeText(input.GSTNumber),
		IsDefault:    input.IsDefault,
		IsActive:     true,
	}

	created, err := s.addresses.Create(ctx, addr)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save address")
	}

	s.invalidateCheckoutViews(ctx)
	return created, nil
}

func (s *addressService) UpdateBusinessAddress(ctx context.Context, identity domain.Identity, addressID uuid.UUID, patch domain.AddressPatch) error {
	const op = "address.update"

	if !identity.Authenticated() {
		return domain.Unauthorized(op, "Sign in to manage addresses")
	}

	if patch.AddressType != nil && !patch.AddressType.Valid() {
		return ErrInvalidAddressType
	}

	sanitizePatch(&patch)

	matched, err := s.addresses.Update(ctx, identity.UserID, addressID, patch)
	if err != nil {
		return domain.Internal(err, op, "failed to update address")
	}
	if matched == 0 {
		// Covers both missing addresses and addresses owned by someone
		// else; the two are deliberately indistinguishable.
		return ErrAddressNotFound
	}

	s.invalidateCheckoutViews(ctx)
	return nil
}

func (s *addressService) DeleteBusinessAddress(ctx context.Context, identity domain.Identity, addressID uuid.UUID) error {
	const op = "address.delete"

	if !identity.Authenticated() {
		return domain.Unauthorized(op, "Sign in to manage addresses")
	}

	matched, err := s.addresses.SoftDelete(ctx, identity.UserID, addressID)
	if err != nil {
		return domain.Internal(err, op, "failed to delete address")
	}
	if matched == 0 {
		return ErrAddressNotFound
	}

	s.invalidateCheckoutViews(ctx)
	return nil
}

func (s *addressService) invalidateCheckoutViews(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateCheckoutViews(ctx)
	}
}

func sanitizePatch(patch *domain.AddressPatch) {
	clean := func(p *string) {
		if p != nil {
			*p = checkout.SanitizeText(*p)
		}
	}
	clean(patch.ContactName)
	clean(patch.ContactPhone)
	clean(patch.AddressLine1)
	clean(patch.AddressLine2)
	clean(patch.City)
	clean(patch.State)
	clean(patch.PostalCode)
	clean(patch.Country)
	clean(patch.GSTNumber)
}
