package product

import (
	"time"

	"github.com/lib/pq"
)

// Product is a listed item. Tags are stored as a text[] column.
type Product struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Sold        bool           `json:"sold"`
	UserID      int64          `json:"userId"`
	Tags        pq.StringArray `json:"tags,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
