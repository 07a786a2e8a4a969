package domain

import "time"

// Product is a catalog item. Price is in centavos.
type Product struct {
	ID          int64
	StoreID     int64
	Name        string
	Price       int64
	Image       string
	Category    string
	Description string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Product) Clone() Product { return p }
