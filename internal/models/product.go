package models

import (
	"errors"
	"time"
)

// ErrProductNotFound is returned by repositories when no row matches the requested ID.
var ErrProductNotFound = errors.New("product not found")

// Product represents a catalog item.
// A zero ID means the product has not been persisted yet.
type Product struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"type:varchar(255);not null"`
	Price            float64   `json:"price" gorm:"not null"`
	Quantity         int64     `json:"quantity" gorm:"not null"`
	ExpirationDate   time.Time `json:"expiration_date" gorm:"not null"`
	Image            []byte    `json:"-"`
	ImageContentType string    `json:"image_content_type" gorm:"type:varchar(100)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsNew reports whether the product has no persisted row yet.
func (p *Product) IsNew() bool {
	return p.ID == 0
}

// HasImage reports whether image bytes are attached to the product.
func (p *Product) HasImage() bool {
	return len(p.Image) > 0
}
