package model

import "time"

// Product is a catalog entry owned by a seller.
type Product struct {
	ID          int64
	SellerID    int64
	Name        string
	Category    string
	Description string
	Price       int64
	Stock       int
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
