package models

// Product is the catalog snapshot a client adds to the cart. The catalog itself
// is owned by the client.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Reviews     int     `json:"reviews,omitempty"`
	SalonID     string  `json:"salonId"`
	SalonName   string  `json:"salonName"`
	Category    string  `json:"category,omitempty"`
}
