// Package routes wires handlers onto the router.
package routes

import (
	"net/http"

	"github.com/cedarelevator/commerce/internal/handler"
	"github.com/cedarelevator/commerce/internal/middleware"
	"github.com/cedarelevator/commerce/internal/router"
)

// Deps contains dependencies for API routes
type Deps struct {
	Checkout  *handler.CheckoutHandler
	Orders    *handler.OrderHandler
	Addresses *handler.AddressHandler
	Metrics   *middleware.Metrics

	// Healthz reports readiness; typically a database ping.
	Healthz http.HandlerFunc
}

// Register registers all API routes
func Register(r *router.Router, deps Deps) {
	// Operational endpoints, outside the versioned API surface
	r.Get("/healthz", deps.Healthz)
	r.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// Checkout
	r.Get("/api/v1/checkout/eligibility", deps.Checkout.Eligibility)
	r.Get("/api/v1/checkout/quotes/{id}/preview", deps.Checkout.PreviewQuote)

	// Orders
	r.Post("/api/v1/orders", deps.Checkout.CreateOrder)
	r.Get("/api/v1/orders", deps.Orders.List)
	r.Get("/api/v1/orders/{id}", deps.Orders.Get)
	r.Patch("/api/v1/orders/{id}/status", deps.Orders.UpdateStatus)
	r.Post("/api/v1/orders/{id}/tracking", deps.Orders.AddTracking)
	r.Post("/api/v1/orders/{id}/cancel", deps.Orders.Cancel)
	r.Post("/api/v1/orders/bulk-status", deps.Orders.BulkUpdateStatus)

	// Addresses
	r.Get("/api/v1/addresses", deps.Addresses.List)
	r.Post("/api/v1/addresses", deps.Addresses.Create)
	r.Patch("/api/v1/addresses/{id}", deps.Addresses.Update)
	r.Delete("/api/v1/addresses/{id}", deps.Addresses.Delete)
}
