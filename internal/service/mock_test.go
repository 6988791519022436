package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/service"
)

// fakeOrderStore is an in-memory service.OrderStore.
type fakeOrderStore struct {
	orders map[uuid.UUID]domain.Order
	items  map[uuid.UUID][]domain.OrderItem

	insertOrderErr error
	insertItemsErr error
	deleteOrderErr error

	deleted []uuid.UUID
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[uuid.UUID]domain.Order),
		items:  make(map[uuid.UUID][]domain.OrderItem),
	}
}

func (f *fakeOrderStore) InsertOrder(ctx context.Context, order domain.Order) error {
	if f.insertOrderErr != nil {
		return f.insertOrderErr
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) InsertOrderItems(ctx context.Context, items []domain.OrderItem) error {
	if f.insertItemsErr != nil {
		return f.insertItemsErr
	}
	for _, item := range items {
		f.items[item.OrderID] = append(f.items[item.OrderID], item)
	}
	return nil
}

func (f *fakeOrderStore) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if f.deleteOrderErr != nil {
		return f.deleteOrderErr
	}
	delete(f.orders, orderID)
	f.deleted = append(f.deleted, orderID)
	return nil
}

func (f *fakeOrderStore) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (f *fakeOrderStore) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderStore) ListOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (int64, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return 0, nil
	}
	order.OrderStatus = status
	f.orders[orderID] = order
	return 1, nil
}

func (f *fakeOrderStore) SetTrackingInfo(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) (int64, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return 0, nil
	}
	order.OrderStatus = domain.OrderShipped
	order.ShippingTrackingNumber = trackingNumber
	order.ShippingProvider = carrier
	f.orders[orderID] = order
	return 1, nil
}

func (f *fakeOrderStore) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (int64, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return 0, nil
	}
	order.OrderStatus = domain.OrderCancelled
	order.CancellationReason = reason
	f.orders[orderID] = order
	return 1, nil
}

func (f *fakeOrderStore) DeleteEmptyOrdersOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for id, order := range f.orders {
		if len(f.items[id]) == 0 && order.CreatedAt.Before(cutoff) {
			delete(f.orders, id)
			removed++
		}
	}
	return removed, nil
}

// fakeBusinessStore returns a fixed profile.
type fakeBusinessStore struct {
	profile *domain.BusinessProfile
	err     error
}

func (f *fakeBusinessStore) GetProfileByUser(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	return f.profile, f.err
}

// fakeQuoteSource serves quotes from a map, scoped by user like the real store.
type fakeQuoteSource struct {
	quotes map[string]*service.QuoteDetail
}

func (f *fakeQuoteSource) GetQuote(ctx context.Context, quoteID, userID string) (*service.QuoteDetail, error) {
	quote, ok := f.quotes[quoteID]
	if !ok || quote.UserID != userID {
		return nil, nil
	}
	return quote, nil
}

// fakeIdempotency reserves keys in memory.
type fakeIdempotency struct {
	taken      map[string]bool
	reserveErr error
	released   []string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{taken: make(map[string]bool)}
}

func (f *fakeIdempotency) Reserve(ctx context.Context, key string) (bool, error) {
	if f.reserveErr != nil {
		return false, f.reserveErr
	}
	if f.taken[key] {
		return false, nil
	}
	f.taken[key] = true
	return true, nil
}

func (f *fakeIdempotency) Release(ctx context.Context, key string) error {
	delete(f.taken, key)
	f.released = append(f.released, key)
	return nil
}

// fakeEvents counts published events.
type fakeEvents struct {
	created   int
	cancelled int
	shipped   int
}

func (f *fakeEvents) PublishOrderCreated(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	f.created++
	return nil
}

func (f *fakeEvents) PublishOrderCancelled(ctx context.Context, orderID uuid.UUID, reason string) error {
	f.cancelled++
	return nil
}

func (f *fakeEvents) PublishOrderShipped(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) error {
	f.shipped++
	return nil
}

// fakeAddressStore is an in-memory service.AddressStore.
type fakeAddressStore struct {
	addresses map[uuid.UUID]domain.BusinessAddress
}

func newFakeAddressStore() *fakeAddressStore {
	return &fakeAddressStore{addresses: make(map[uuid.UUID]domain.BusinessAddress)}
}

func (f *fakeAddressStore) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.BusinessAddress, error) {
	var out []domain.BusinessAddress
	for _, addr := range f.addresses {
		if addr.BusinessID == businessID && addr.IsActive {
			out = append(out, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeAddressStore) GetIndividualDefault(ctx context.Context, userID string) (*domain.BusinessAddress, error) {
	for _, addr := range f.addresses {
		if addr.UserID == userID && addr.IsDefault && addr.IsActive {
			found := addr
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAddressStore) Create(ctx context.Context, addr domain.BusinessAddress) (*domain.BusinessAddress, error) {
	if addr.IsDefault {
		// Mirrors the store's transactional sibling-default clearing.
		for id, other := range f.addresses {
			if other.BusinessID == addr.BusinessID && other.AddressType == addr.AddressType {
				other.IsDefault = false
				f.addresses[id] = other
			}
		}
	}
	addr.CreatedAt = time.Now().UTC()
	addr.UpdatedAt = addr.CreatedAt
	f.addresses[addr.ID] = addr
	return &addr, nil
}

func (f *fakeAddressStore) Update(ctx context.Context, userID string, addressID uuid.UUID, patch domain.AddressPatch) (int64, error) {
	addr, ok := f.addresses[addressID]
	if !ok || addr.UserID != userID || !addr.IsActive {
		return 0, nil
	}
	if patch.ContactName != nil {
		addr.ContactName = *patch.ContactName
	}
	if patch.AddressLine1 != nil {
		addr.AddressLine1 = *patch.AddressLine1
	}
	if patch.City != nil {
		addr.City = *patch.City
	}
	if patch.IsDefault != nil {
		addr.IsDefault = *patch.IsDefault
	}
	f.addresses[addressID] = addr
	return 1, nil
}

func (f *fakeAddressStore) SoftDelete(ctx context.Context, userID string, addressID uuid.UUID) (int64, error) {
	addr, ok := f.addresses[addressID]
	if !ok || addr.UserID != userID || !addr.IsActive {
		return 0, nil
	}
	addr.IsActive = false
	addr.IsDefault = false
	f.addresses[addressID] = addr
	return 1, nil
}

// fakeCache counts invalidations.
type fakeCache struct {
	invalidations int
}

func (f *fakeCache) InvalidateCheckoutViews(ctx context.Context) {
	f.invalidations++
}
