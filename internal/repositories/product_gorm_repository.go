package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gerenciador/internal/models"

	"gorm.io/gorm"
)

// Columns written on update. The image columns are appended only when a new
// image accompanies the product, so an update without upload keeps the stored one.
var (
	productUpdateColumns = []string{"name", "price", "quantity", "expiration_date", "updated_at"}
	productImageColumns  = []string{"image", "image_content_type"}
)

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves the products whose name contains search, ignoring case.
// "%" and "_" in search are matched literally.
// An empty search returns every product. Image bytes are not loaded.
func (r *GORMProductRepository) GetAll(search string) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Omit("image").Order("id")
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database and assigns its ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	product.ID = 0
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	columns := productUpdateColumns
	if product.HasImage() {
		columns = append(append([]string{}, productUpdateColumns...), productImageColumns...)
	}
	// Save would insert a missing row, so the update is restricted to the
	// selected columns of the row matching product.ID.
	res := r.db.Model(product).Select(columns).Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d for update: %w", product.ID, models.ErrProductNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d for deletion: %w", id, models.ErrProductNotFound)
	}
	return nil
}
