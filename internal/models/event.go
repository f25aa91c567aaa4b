package models

import "time"

// Product event types published after a successful write.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is the message body published for product changes.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  uint      `json:"product_id"`
	Name       string    `json:"name,omitempty"`
	Price      float64   `json:"price,omitempty"`
	Quantity   int64     `json:"quantity,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
