package repositories

import (
	"gerenciador/internal/models"
)

// ProductRepository defines the interface for product data access.
// GetByID, Update and Delete return an error wrapping models.ErrProductNotFound
// when no row matches the ID.
type ProductRepository interface {
	GetAll(search string) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
