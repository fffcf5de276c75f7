// Package notify runs post-commit side effects of a placed order (the
// confirmation email and the order.placed event) without holding up the
// request that placed it.
package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlaced is emitted once per committed order.
type OrderPlaced struct {
	Number        string          `json:"number"`
	Shopper       string          `json:"-"`
	PlacedAt      time.Time       `json:"placed_at"`
	CustomerName  string          `json:"customer_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Lines         []Line          `json:"lines"`
}

type Line struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
}
