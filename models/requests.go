package models

// RequestStatus is the lifecycle state of a rent or product request.
// The backend owns the transitions; the client only reads them.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
)

func (s RequestStatus) Pending() bool {
	return s == "" || s == StatusPending
}

// RentRequest is a booking against one equipment listing.
type RentRequest struct {
	ID            string        `json:"_id,omitempty"`
	EquipmentID   string        `json:"equipmentId"`
	EquipmentName string        `json:"equipmentName,omitempty"`
	UserID        string        `json:"userId"`
	RequestedBy   string        `json:"requestedBy,omitempty"`
	Days          int           `json:"days"`
	Status        RequestStatus `json:"status,omitempty"`
}

// ProductRequest is a purchase request against one product listing.
type ProductRequest struct {
	ID          string        `json:"_id,omitempty"`
	ProductID   string        `json:"productId"`
	ProductName string        `json:"productName,omitempty"`
	UserID      string        `json:"userId"`
	RequestedBy string        `json:"requestedBy,omitempty"`
	Quantity    int           `json:"quantity"`
	Status      RequestStatus `json:"status,omitempty"`
}

// NewRentRequest is the create payload for a rent request.
type NewRentRequest struct {
	EquipmentID string `json:"equipmentId" validate:"required"`
	UserID      string `json:"userId" validate:"required"`
	Days        int    `json:"days" validate:"gt=0"`
}

// NewProductRequest is the create payload for a product request.
type NewProductRequest struct {
	ProductID string `json:"productId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// Dashboard pairs an owner's listings with the requests made against them.
type Dashboard[L any, R any] struct {
	Listings []L
	Requests []R
}
