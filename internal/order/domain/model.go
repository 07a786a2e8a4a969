package domain

import "time"

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// Item is one order line. Price is the unit price in centavos.
type Item struct {
	ProductID int64
	Name      string
	Size      string
	Quantity  int
	Price     int64
}

// Order is an immutable sale record. Total is in centavos; the customer is
// identified by phone.
type Order struct {
	ID            int64
	StoreID       int64
	CustomerName  string
	CustomerPhone string
	Date          time.Time
	Total         int64
	Items         []Item
	Status        Status
}

func (o Order) Clone() Order {
	if o.Items != nil {
		o.Items = append([]Item(nil), o.Items...)
	}
	return o
}

func IsStatus(s Status) bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	default:
		return false
	}
}
