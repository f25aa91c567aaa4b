package services

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"time"

	"gerenciador/internal/models"
	"gerenciador/internal/repositories"
	"gerenciador/internal/validation"
)

// User-facing messages.
const (
	MsgNameTooShort       = "name must have at least 5 characters"
	MsgPriceRequired      = "price is required"
	MsgQuantityRequired   = "quantity is required"
	MsgImageRequired      = "image is required"
	MsgExpirationRequired = "expiration date is required"

	MsgDeleteFailed    = "could not delete product"
	MsgNotFound        = "product not found"
	MsgFetchFailed     = "could not fetch product"
	MsgListFailed      = "could not connect to database"
	MsgSaveFailed      = "could not save product"
	MsgImageSaveFailed = "could not save product image"
)

// Validation limits.
const (
	MinNameLength         = 5
	MinPrice              = 0.01
	MaxPrice              = math.MaxFloat64
	MinQuantity           = 0
	MaxQuantity           = math.MaxInt32
	ExpirationWindowYears = 10
)

// ProductExchange is the exchange product events are published to. The
// event type is used as routing key.
const ProductExchange = "products"

// EventPublisher publishes a message body under a routing key.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithPublisher makes the service publish product events after each write.
func WithPublisher(p EventPublisher) Option {
	return func(s *ProductService) { s.publisher = p }
}

// WithLocation sets the location used to compute "today".
func WithLocation(loc *time.Location) Option {
	return func(s *ProductService) { s.location = loc }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ProductService) { s.now = now }
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	location  *time.Location
	now       func() time.Time
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:     repo,
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the location dates are interpreted in.
func (s *ProductService) Location() *time.Location {
	return s.location
}

// ListProducts retrieves the products matching search; an empty search lists all.
func (s *ProductService) ListProducts(search string) ([]models.Product, error) {
	products, err := s.repo.GetAll(search)
	if err != nil {
		return nil, NewPersistenceError(MsgListFailed, err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID. A missing product is
// reported with models.ErrProductNotFound, not as a persistence failure.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return nil, err
		}
		return nil, NewPersistenceError(MsgFetchFailed, err)
	}
	return product, nil
}

// Validate applies the product rules in order and returns the first violation.
func (s *ProductService) Validate(product *models.Product) error {
	if !validation.String(product.Name, MinNameLength) {
		return NewValidationError(MsgNameTooShort)
	}
	if !validation.Float(product.Price, MinPrice, MaxPrice) {
		return NewValidationError(MsgPriceRequired)
	}
	if !validation.Int(product.Quantity, MinQuantity, MaxQuantity) {
		return NewValidationError(MsgQuantityRequired)
	}
	if product.IsNew() && !product.HasImage() {
		return NewValidationError(MsgImageRequired)
	}
	minDate := validation.Midnight(s.now().In(s.location))
	maxDate := minDate.AddDate(ExpirationWindowYears, 0, 0)
	if !validation.Date(product.ExpirationDate, minDate, maxDate) {
		return NewValidationError(MsgExpirationRequired)
	}
	return nil
}

// SaveProduct validates the product, then updates it when it already has an
// ID or inserts it otherwise.
func (s *ProductService) SaveProduct(product *models.Product) error {
	if err := s.Validate(product); err != nil {
		return err
	}

	eventType := models.EventProductCreated
	var err error
	if product.IsNew() {
		err = s.repo.Create(product)
	} else {
		eventType = models.EventProductUpdated
		err = s.repo.Update(product)
	}
	if err != nil {
		return NewPersistenceError(MsgSaveFailed, err)
	}

	s.publish(models.ProductEvent{
		Type:      eventType,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  product.Quantity,
	})
	return nil
}

// DeleteProduct deletes a product by its ID. Deleting a missing product is a failure.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return NewPersistenceError(MsgDeleteFailed, err)
	}
	s.publish(models.ProductEvent{Type: models.EventProductDeleted, ProductID: id})
	return nil
}

func (s *ProductService) publish(event models.ProductEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.now()

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event.Type, err)
		return
	}
	if err := s.publisher.Publish(ProductExchange, event.Type, body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", event.Type, event.ProductID, err)
		return
	}
	log.Printf("Published %s event for product %d", event.Type, event.ProductID)
}
