package domain

import "time"

// Crop is a listing published by a farmer.
type Crop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Quantity    float64   `json:"quantity"`
	Farmer      string    `json:"farmer"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TotalPrice returns price × quantity and false when no quantity was given.
func (c *Crop) TotalPrice() (float64, bool) {
	if c.Quantity <= 0 {
		return 0, false
	}
	return c.Price * c.Quantity, true
}
