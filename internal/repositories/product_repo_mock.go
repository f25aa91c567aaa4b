package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gerenciador/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns the products whose name contains search, ordered by ID.
func (r *MockProductRepository) GetAll(search string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), search) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrProductNotFound)
	}
	return &product, nil
}

// Create adds a new product and assigns the next sequential ID.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product, keeping the stored image when none is supplied.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d for update: %w", product.ID, models.ErrProductNotFound)
	}
	stored.Name = product.Name
	stored.Price = product.Price
	stored.Quantity = product.Quantity
	stored.ExpirationDate = product.ExpirationDate
	if product.HasImage() {
		stored.Image = product.Image
		stored.ImageContentType = product.ImageContentType
	}
	stored.UpdatedAt = time.Now()
	r.products[product.ID] = stored
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d for deletion: %w", id, models.ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}
