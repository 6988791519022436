package checkout_test

import (
	"testing"

	"github.com/cedarelevator/commerce/internal/checkout"
	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testLimits = checkout.IndividualLimits{
	MaxOrderValue:      500000,
	MaxQuantityPerItem: 10,
}

func TestIndividualLimits_WithinLimits(t *testing.T) {
	items := []domain.CheckoutItem{
		{Title: "Roller guide", Quantity: 2, UnitPrice: 1200},
	}

	got := testLimits.Validate(items, 2400)

	assert.True(t, got.Valid)
	assert.Empty(t, got.Violations)
}

func TestIndividualLimits_BoundaryInclusive(t *testing.T) {
	// Every item at exactly the per-item max and the total at exactly the
	// order-value max must pass.
	items := []domain.CheckoutItem{
		{Title: "Buffer spring", Quantity: 10, UnitPrice: 25000},
		{Title: "Landing door sill", Quantity: 10, UnitPrice: 25000},
	}

	got := testLimits.Validate(items, 500000)

	assert.True(t, got.Valid)
	assert.Empty(t, got.Violations)
}

func TestIndividualLimits_OrderValueExceeded(t *testing.T) {
	items := []domain.CheckoutItem{
		{Title: "Controller cabinet", Quantity: 1, UnitPrice: 500001},
	}

	got := testLimits.Validate(items, 500001)

	assert.False(t, got.Valid)
	assert.Len(t, got.Violations, 1)
	assert.Contains(t, got.Violations[0], "exceeds individual limit")
	assert.Contains(t, got.Violations[0], "500001")
}

func TestIndividualLimits_QuantityExceeded(t *testing.T) {
	items := []domain.CheckoutItem{
		{Title: "Hall button", Quantity: 11, UnitPrice: 100},
	}

	got := testLimits.Validate(items, 1100)

	assert.False(t, got.Valid)
	assert.Len(t, got.Violations, 1)
	assert.Contains(t, got.Violations[0], "Hall button")
	assert.Contains(t, got.Violations[0], "per-item limit")
}

func TestIndividualLimits_ReportsAllViolations(t *testing.T) {
	items := []domain.CheckoutItem{
		{Title: "Hoist rope set", Quantity: 12, UnitPrice: 50000},
		{Title: "Car light kit", Quantity: 3, UnitPrice: 800},
		{Title: "COP panel", Quantity: 15, UnitPrice: 2000},
	}

	got := testLimits.Validate(items, 632400)

	assert.False(t, got.Valid)
	// One order-value violation plus two quantity violations, in one pass.
	assert.Len(t, got.Violations, 3)
}

func TestIndividualLimits_DoesNotMutateItems(t *testing.T) {
	items := []domain.CheckoutItem{
		{Title: "Door hanger", Quantity: 20, UnitPrice: 900},
	}

	before := items[0]
	_ = testLimits.Validate(items, 18000)

	assert.Equal(t, before, items[0])
}
