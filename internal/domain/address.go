package domain

import (
	"time"

	"github.com/google/uuid"
)

// AddressType scopes an address to shipping, billing, or both.
type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
	AddressBoth     AddressType = "both"
)

// Valid reports whether t is a known address type.
func (t AddressType) Valid() bool {
	return t == AddressShipping || t == AddressBilling || t == AddressBoth
}

// BusinessAddress is a shipping/billing address on a business account.
// At most one address per (business_id, address_type) has IsDefault set;
// the store enforces this inside a single transaction.
//
// Rows are never physically removed: delete is IsActive=false.
type BusinessAddress struct {
	ID           uuid.UUID   `json:"id"`
	BusinessID   uuid.UUID   `json:"business_id"`
	UserID       string      `json:"clerk_user_id"`
	AddressType  AddressType `json:"address_type"`
	ContactName  string      `json:"contact_name"`
	ContactPhone string      `json:"contact_phone"`
	AddressLine1 string      `json:"address_line1"`
	AddressLine2 string      `json:"address_line2,omitempty"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	PostalCode   string      `json:"postal_code"`
	Country      string      `json:"country"`
	GSTNumber    string      `json:"gst_number,omitempty"`
	IsDefault    bool        `json:"is_default"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// AddressPatch is the whitelisted set of updatable address fields.
// Nil means "leave unchanged"; arbitrary column updates are not accepted.
type AddressPatch struct {
	AddressType  *AddressType
	ContactName  *string
	ContactPhone *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	Country      *string
	GSTNumber    *string
	IsDefault    *bool
}
