package models

// Product is a bulk farm listing on the B2B marketplace.
type Product struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Price    Price  `json:"price" validate:"gt=0"`
	Seller   string `json:"seller" validate:"required"`
	SellerID string `json:"sellerId,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func (p Product) Key() string      { return p.ID }
func (p Product) Label() string    { return p.Name }
func (p Product) Group() string    { return p.Category }
func (p Product) UnitPrice() Price { return p.Price }

// StoreProduct is a retail catalog item. Brand and Model are optional on
// the wire; Title joins whatever is present for display.
type StoreProduct struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Model       string `json:"model,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Price       Price  `json:"price"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Stock       int    `json:"stock,omitempty"`
}

func (p StoreProduct) Key() string   { return p.ID }
func (p StoreProduct) Label() string { return p.Name }
func (p StoreProduct) Group() string { return p.Category }

func (p StoreProduct) Title() string {
	label := p.Name
	if p.Brand != "" {
		label = p.Brand + " " + label
	}
	if p.Model != "" {
		label += " " + p.Model
	}
	return label
}

func (p StoreProduct) UnitPrice() Price { return p.Price }

// Equipment is a rentable machine. Price is per day.
type Equipment struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Price       Price  `json:"price" validate:"gt=0"`
	Description string `json:"description" validate:"required"`
	OwnerID     string `json:"ownerId,omitempty"`
	OwnerName   string `json:"ownerName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

func (e Equipment) Key() string      { return e.ID }
func (e Equipment) Label() string    { return e.Name }
func (e Equipment) Group() string    { return e.Category }
func (e Equipment) UnitPrice() Price { return e.Price }
