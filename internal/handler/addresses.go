package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/service"
)

// AddressHandler serves the saved-address book used at checkout.
type AddressHandler struct {
	service service.AddressService
	logger  *slog.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(svc service.AddressService, logger *slog.Logger) *AddressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddressHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /api/v1/addresses
//
// Business accounts get their address book; individual accounts get their
// single default address (as a one-element list, or empty when unset).
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())

	if r.URL.Query().Get("scope") == "individual" {
		address, err := h.service.GetIndividualAddress(r.Context(), identity)
		if err != nil {
			if domain.ErrorCode(err) == domain.ENOTFOUND {
				respondData(w, http.StatusOK, []domain.BusinessAddress{})
				return
			}
			ErrorResponse(w, r, err)
			return
		}
		respondData(w, http.StatusOK, []domain.BusinessAddress{*address})
		return
	}

	addresses, err := h.service.GetBusinessAddresses(r.Context(), identity)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, addresses)
}

// createAddressRequest is the payload for POST /api/v1/addresses.
type createAddressRequest struct {
	BusinessID   string `json:"business_id" validate:"required,uuid"`
	AddressType  string `json:"address_type" validate:"required,oneof=shipping billing both"`
	ContactName  string `json:"contact_name" validate:"required,max=100"`
	ContactPhone string `json:"contact_phone" validate:"required,max=20"`
	AddressLine1 string `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string `json:"address_line2" validate:"max=200"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	PostalCode   string `json:"postal_code" validate:"required,max=20"`
	Country      string `json:"country" validate:"required,max=100"`
	GSTNumber    string `json:"gst_number" validate:"max=20"`
	IsDefault    bool   `json:"is_default"`
}

// Create handles POST /api/v1/addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	address, err := h.service.AddBusinessAddress(r.Context(), identity, service.AddressInput{
		BusinessID:   req.BusinessID,
		AddressType:  domain.AddressType(req.AddressType),
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		GSTNumber:    req.GSTNumber,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, address)
}

// updateAddressRequest is the payload for PATCH /api/v1/addresses/{id}.
// Every field is optional; absent fields are left untouched.
type updateAddressRequest struct {
	AddressType  *string `json:"address_type" validate:"omitempty,oneof=shipping billing both"`
	ContactName  *string `json:"contact_name" validate:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=20"`
	AddressLine1 *string `json:"address_line1" validate:"omitempty,max=200"`
	AddressLine2 *string `json:"address_line2" validate:"omitempty,max=200"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" validate:"omitempty,max=20"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	GSTNumber    *string `json:"gst_number" validate:"omitempty,max=20"`
	IsDefault    *bool   `json:"is_default"`
}

// Update handles PATCH /api/v1/addresses/{id}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	addressID, err := parseAddressID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	patch := domain.AddressPatch{
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		GSTNumber:    req.GSTNumber,
		IsDefault:    req.IsDefault,
	}
	if req.AddressType != nil {
		addressType := domain.AddressType(*req.AddressType)
		patch.AddressType = &addressType
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.service.UpdateBusinessAddress(r.Context(), identity, addressID, patch); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"id": addressID.String()})
}

// Delete handles DELETE /api/v1/addresses/{id}
//
// Soft delete; the address disappears from listings but stays referenced by
// past orders.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	addressID, err := parseAddressID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	if err := h.service.DeleteBusinessAddress(r.Context(), identity, addressID); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseAddressID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.Invalid("address.parse_id", "address ID is not valid")
	}
	return id, nil
}
