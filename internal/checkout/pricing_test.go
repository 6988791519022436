package checkout_test

import (
	"testing"

	"github.com/cedarelevator/commerce/internal/checkout"
	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPricer_Summary_TwoItems(t *testing.T) {
	pricer := checkout.NewPricer(18, 0, "INR")

	items := []domain.CheckoutItem{
		{ID: "itm_1", Title: "Traction machine bearing", Quantity: 2, UnitPrice: 10000},
		{ID: "itm_2", Title: "Door operator belt", Quantity: 1, UnitPrice: 5000},
	}

	got := pricer.Summary(items)

	assert.Equal(t, int64(25000), got.Subtotal)
	assert.Equal(t, int64(4500), got.Tax)
	assert.Equal(t, int64(0), got.Shipping)
	assert.Equal(t, int64(0), got.Discount)
	assert.Equal(t, int64(29500), got.Total)
	assert.Equal(t, "INR", got.Currency)
}

func TestPricer_Summary_EmptyItemsAllZero(t *testing.T) {
	pricer := checkout.NewPricer(18, 0, "INR")

	got := pricer.Summary(nil)

	assert.Equal(t, domain.CheckoutSummary{GSTPercentage: 18, Currency: "INR"}, got)
}

func TestPricer_Summary_Idempotent(t *testing.T) {
	pricer := checkout.NewPricer(18, 0, "INR")

	items := []domain.CheckoutItem{
		{ID: "itm_1", Title: "Guide rail clip", Quantity: 7, UnitPrice: 333},
	}

	first := pricer.Summary(items)
	second := pricer.Summary(items)

	assert.Equal(t, first, second)
}

func TestPricer_Summary_TotalInvariant(t *testing.T) {
	pricer := checkout.NewPricer(18, 0, "INR")

	tests := []struct {
		name  string
		items []domain.CheckoutItem
	}{
		{
			name:  "single unit item",
			items: []domain.CheckoutItem{{Quantity: 1, UnitPrice: 1}},
		},
		{
			name: "rounding up at half",
			// subtotal 25 -> 18% = 4.5, rounds to 5
			items: []domain.CheckoutItem{{Quantity: 1, UnitPrice: 25}},
		},
		{
			name: "rounding down below half",
			// subtotal 24 -> 18% = 4.32, rounds to 4
			items: []domain.CheckoutItem{{Quantity: 1, UnitPrice: 24}},
		},
		{
			name: "large mixed order",
			items: []domain.CheckoutItem{
				{Quantity: 12, UnitPrice: 4999},
				{Quantity: 3, UnitPrice: 129999},
				{Quantity: 40, UnitPrice: 75},
			},
		},
		{
			name:  "zero priced item",
			items: []domain.CheckoutItem{{Quantity: 5, UnitPrice: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricer.Summary(tt.items)

			var wantSubtotal int64
			for _, item := range tt.items {
				wantSubtotal += item.UnitPrice * int64(item.Quantity)
			}

			assert.Equal(t, wantSubtotal, got.Subtotal)
			assert.Equal(t, (wantSubtotal*18+50)/100, got.Tax)
			assert.Equal(t, got.Subtotal+got.Tax+got.Shipping-got.Discount, got.Total)
		})
	}
}

func TestPricer_SummaryWithDiscount(t *testing.T) {
	pricer := checkout.NewPricer(18, 0, "INR")

	items := []domain.CheckoutItem{
		{Quantity: 1, UnitPrice: 1000},
	}

	got := pricer.SummaryWithDiscount(items, 100)

	assert.Equal(t, int64(100), got.Discount)
	assert.Equal(t, int64(1000+180+0-100), got.Total)
}

func TestPricer_FlatShippingAppliesOnlyToNonEmptyOrders(t *testing.T) {
	pricer := checkout.NewPricer(18, 250, "INR")

	empty := pricer.Summary(nil)
	assert.Equal(t, int64(0), empty.Shipping, "an empty order costs nothing to ship")

	got := pricer.Summary([]domain.CheckoutItem{{Quantity: 1, UnitPrice: 1000}})
	assert.Equal(t, int64(250), got.Shipping)
	assert.Equal(t, int64(1000+180+250), got.Total)
}

func TestPricer_ConfigurableGSTPercentage(t *testing.T) {
	pricer := checkout.NewPricer(5, 0, "INR")

	got := pricer.Summary([]domain.CheckoutItem{{Quantity: 1, UnitPrice: 1000}})

	assert.Equal(t, int64(50), got.Tax)
	assert.Equal(t, int64(5), got.GSTPercentage)
}
