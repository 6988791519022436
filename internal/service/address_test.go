package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/service"
)

type addressEnv struct {
	addresses *fakeAddressStore
	cache     *fakeCache
	profile   *domain.BusinessProfile
	service   service.AddressService
}

func newAddressEnv(profile *domain.BusinessProfile) *addressEnv {
	env := &addressEnv{
		addresses: newFakeAddressStore(),
		cache:     &fakeCache{},
		profile:   profile,
	}
	env.service = service.NewAddressService(env.addresses, &fakeBusinessStore{profile: profile}, env.cache, nil)
	return env
}

func validInput(businessID uuid.UUID) service.AddressInput {
	return service.AddressInput{
		BusinessID:   businessID.String(),
		AddressType:  domain.AddressShipping,
		ContactName:  "Ravi Kumar",
		ContactPhone: "+91 98765 43210",
		AddressLine1: "Plot 14, Industrial Estate",
		City:         "Coimbatore",
		State:        "Tamil Nadu",
		PostalCode:   "641021",
		Country:      "India",
		IsDefault:    true,
	}
}

func identity() domain.Identity {
	return domain.Identity{UserID: testUser}
}

func TestAddBusinessAddress(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	created, err := env.service.AddBusinessAddress(context.Background(), identity(), validInput(profile.ID))
	require.NoError(t, err)
	assert.Equal(t, profile.ID, created.BusinessID)
	assert.Equal(t, testUser, created.UserID)
	assert.True(t, created.IsDefault)
	assert.True(t, created.IsActive)
	assert.Equal(t, 1, env.cache.invalidations)
}

func TestAddBusinessAddress_RequiresAuthentication(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	_, err := env.service.AddBusinessAddress(context.Background(), domain.Identity{}, validInput(profile.ID))
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestAddBusinessAddress_Validation(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	t.Run("bad business id", func(t *testing.T) {
		input := validInput(profile.ID)
		input.BusinessID = "not-a-uuid"
		_, err := env.service.AddBusinessAddress(context.Background(), identity(), input)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("bad address type", func(t *testing.T) {
		input := validInput(profile.ID)
		input.AddressType = "warehouse"
		_, err := env.service.AddBusinessAddress(context.Background(), identity(), input)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("missing required fields", func(t *testing.T) {
		input := validInput(profile.ID)
		input.City = ""
		_, err := env.service.AddBusinessAddress(context.Background(), identity(), input)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

func TestAddBusinessAddress_Sanitization(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	input := validInput(profile.ID)
	input.ContactName = `Ravi <b>"Kumar"</b>`
	input.AddressLine1 = "Plot 14; DROP TABLE orders"

	created, err := env.service.AddBusinessAddress(context.Background(), identity(), input)
	require.NoError(t, err)
	assert.NotContains(t, created.ContactName, "<")
	assert.NotContains(t, created.ContactName, `"`)
	assert.NotContains(t, created.AddressLine1, ";")
}

func TestAddBusinessAddress_DefaultExclusive(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	first, err := env.service.AddBusinessAddress(context.Background(), identity(), validInput(profile.ID))
	require.NoError(t, err)

	second, err := env.service.AddBusinessAddress(context.Background(), identity(), validInput(profile.ID))
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	// The earlier default for the same (business, type) was cleared.
	addrs, err := env.service.GetBusinessAddresses(context.Background(), identity())
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	for _, addr := range addrs {
		if addr.ID == first.ID {
			assert.False(t, addr.IsDefault)
		}
	}
}

func TestGetBusinessAddresses_IndividualGetsEmptyList(t *testing.T) {
	env := newAddressEnv(nil)

	addrs, err := env.service.GetBusinessAddresses(context.Background(), identity())
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestGetIndividualAddress(t *testing.T) {
	env := newAddressEnv(nil)

	_, err := env.service.GetIndividualAddress(context.Background(), identity())
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	env.addresses.addresses[uuid.New()] = domain.BusinessAddress{
		ID:        uuid.New(),
		UserID:    testUser,
		IsDefault: true,
		IsActive:  true,
		City:      "Coimbatore",
	}

	addr, err := env.service.GetIndividualAddress(context.Background(), identity())
	require.NoError(t, err)
	assert.Equal(t, "Coimbatore", addr.City)
}

func TestUpdateBusinessAddress(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	created, err := env.service.AddBusinessAddress(context.Background(), identity(), validInput(profile.ID))
	require.NoError(t, err)

	newCity := "Chennai"
	err = env.service.UpdateBusinessAddress(context.Background(), identity(), created.ID, domain.AddressPatch{City: &newCity})
	require.NoError(t, err)
	assert.Equal(t, "Chennai", env.addresses.addresses[created.ID].City)
	assert.Equal(t, 2, env.cache.invalidations)
}

func TestUpdateBusinessAddress_ForeignAddressLooksMissing(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	foreign := uuid.New()
	env.addresses.addresses[foreign] = domain.BusinessAddress{
		ID: foreign, UserID: "somebody_else", IsActive: true,
	}

	newCity := "Chennai"
	err := env.service.UpdateBusinessAddress(context.Background(), identity(), foreign, domain.AddressPatch{City: &newCity})
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestDeleteBusinessAddress(t *testing.T) {
	profile := verifiedProfile()
	env := newAddressEnv(profile)

	created, err := env.service.AddBusinessAddress(context.Background(), identity(), validInput(profile.ID))
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteBusinessAddress(context.Background(), identity(), created.ID))

	stored := env.addresses.addresses[created.ID]
	assert.False(t, stored.IsActive)
	assert.False(t, stored.IsDefault)

	// Deleting again behaves like a missing address.
	err = env.service.DeleteBusinessAddress(context.Background(), identity(), created.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}
