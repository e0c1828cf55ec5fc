package client

import (
	"encoding/json"
	"strings"
)

// Category is one of the fixed logical buckets product records are
// normalized into. Normalization is many-to-one and lossy: the raw backend
// string does not round-trip.
type Category string

const (
	CategoryPipes    Category = "pipes"
	CategoryFittings Category = "fittings"
	CategoryValves   Category = "valves"
	CategoryOther    Category = "other"
)

// NormalizeCategory folds a raw backend category string into one of the
// fixed buckets by case-insensitive keyword containment. Match order is
// fixed: "pipe" wins over "fitting" wins over "valve", so "GI Pipe
// Fittings" normalizes to pipes.
func NormalizeCategory(raw string) Category {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "pipe"):
		return CategoryPipes
	case strings.Contains(s, "fitting"):
		return CategoryFittings
	case strings.Contains(s, "valve"):
		return CategoryValves
	default:
		return CategoryOther
	}
}

// SizeOption is a purchasable size with its price
type SizeOption struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

// Product is a normalized catalog record. SizeOptions is always non-empty
// after normalization; when the backend omits it a single "standard" entry
// is synthesized from the top-level price. External marks records
// synthesized from a third-party demo API; their prices are placeholder
// content, never authoritative commerce data.
type Product struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Category         Category     `json:"category"`
	Image            string       `json:"image,omitempty"`
	Description      string       `json:"description,omitempty"`
	Discount         float64      `json:"discount,omitempty"`
	SizeOptions      []SizeOption `json:"sizeOptions"`
	Material         string       `json:"material,omitempty"`
	PressureRating   string       `json:"pressureRating,omitempty"`
	TemperatureRange string       `json:"temperatureRange,omitempty"`
	Standards        string       `json:"standards,omitempty"`
	Application      string       `json:"application,omitempty"`
	External         bool         `json:"external,omitempty"`
}

// wireProduct is the raw backend shape before normalization
type wireProduct struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Category         string       `json:"category"`
	Image            string       `json:"image"`
	Description      string       `json:"description"`
	Discount         float64      `json:"discount"`
	Price            float64      `json:"price"`
	SizeOptions      []SizeOption `json:"sizeOptions"`
	Material         string       `json:"material"`
	PressureRating   string       `json:"pressureRating"`
	TemperatureRange string       `json:"temperatureRange"`
	Standards        string       `json:"standards"`
	Application      string       `json:"application"`
	External         bool         `json:"external"`
}

func (w wireProduct) normalize() Product {
	p := Product{
		ID:               w.ID,
		Name:             w.Name,
		Category:         NormalizeCategory(w.Category),
		Image:            w.Image,
		Description:      w.Description,
		Discount:         w.Discount,
		SizeOptions:      w.SizeOptions,
		Material:         w.Material,
		PressureRating:   w.PressureRating,
		TemperatureRange: w.TemperatureRange,
		Standards:        w.Standards,
		Application:      w.Application,
		External:         w.External,
	}
	if len(p.SizeOptions) == 0 {
		p.SizeOptions = []SizeOption{{Size: "standard", Price: w.Price}}
	}
	return p
}

func decodeProducts(payload json.RawMessage) ([]Product, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var wire []wireProduct
	if err := json.Unmarshal(payload, &wire); err != nil {
		// Some list endpoints wrap the collection
		var wrapped struct {
			Products []wireProduct `json:"products"`
		}
		if err2 := json.Unmarshal(payload, &wrapped); err2 != nil {
			return nil, err
		}
		wire = wrapped.Products
	}
	products := make([]Product, 0, len(wire))
	for _, w := range wire {
		products = append(products, w.normalize())
	}
	return products, nil
}

func decodeProduct(payload json.RawMessage) (*Product, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var wire wireProduct
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, err
	}
	if wire.ID == "" && wire.Name == "" {
		return nil, nil
	}
	p := wire.normalize()
	return &p, nil
}

// User is the authenticated account held by the session manager
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Credentials for a login attempt
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration payload for a new account
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// Inquiry is a contact-form submission. Write-only: created through the
// contact form, only ever read back through the account page listing.
type Inquiry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// DebugReport is the degraded-but-never-failing shape returned by the
// diagnostic endpoints
type DebugReport struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func decodeUser(payload json.RawMessage) (*User, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var wrapped struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var user User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, err
	}
	if user.ID == "" && user.Email == "" {
		return nil, nil
	}
	return &user, nil
}
