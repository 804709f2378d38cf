package domain

import "time"

// Contract is the agreement between a buyer and the farmer of a crop.
// It is never persisted.
type Contract struct {
	Crop        Crop
	Buyer       string
	GeneratedAt time.Time
}

// Farmer returns the selling party.
func (c Contract) Farmer() string {
	return c.Crop.Farmer
}
