package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"gerenciador/internal/models"
	"gerenciador/internal/services"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
)

// ListingView is the name of the template rendering the product catalog.
const ListingView = "produtos"

// Request parameter names.
const (
	ParamProduct       = "produto"
	ParamDeleteProduct = "excluirProduto"
	ParamSearch        = "buscar-produto"

	FieldID             = "id"
	FieldName           = "nome"
	FieldPrice          = "preco"
	FieldQuantity       = "quantidade"
	FieldExpirationDate = "data-validade"
	FieldImage          = "imagem"
)

// View context keys.
const (
	ViewProduct      = "product"
	ViewProducts     = "products"
	ViewErrorMessage = "error-message"
	ViewSearch       = "search"
	ViewListingURL   = "listing-url"
)

const dateLayout = "2006-01-02"

// ProductHandler handles the catalog listing and the product form.
type ProductHandler struct {
	service      *services.ProductService
	listingURL   string
	maxImageSize int64
}

// NewProductHandler creates a new ProductHandler. listingURL is the canonical
// listing address clients are redirected to after a successful write.
// Uploaded images larger than maxImageSize bytes are rejected; zero disables the cap.
func NewProductHandler(service *services.ProductService, listingURL string, maxImageSize int64) *ProductHandler {
	return &ProductHandler{
		service:      service,
		listingURL:   listingURL,
		maxImageSize: maxImageSize,
	}
}

// RegisterRoutes registers the product routes under the listing URL.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get(h.listingURL, h.HandleGet)
	router.Post(h.listingURL, h.HandlePost)
	router.Get(h.listingURL+"/imagem", h.HandleImage)
}

// HandleGet deletes the product named by excluirProduto, or shows the listing
// together with the product named by produto.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	data := fiber.Map{}

	if deleteID := parseID(c.Query(ParamDeleteProduct)); deleteID > 0 {
		if err := h.service.DeleteProduct(deleteID); err != nil {
			log.Printf("Error deleting product %d: %v", deleteID, err)
			data[ViewErrorMessage] = services.MsgDeleteFailed
			return h.renderListing(c, data)
		}
		return c.Redirect(h.listingURL)
	}

	if productID := parseID(c.Query(ParamProduct)); productID > 0 {
		product, err := h.service.GetProductByID(productID)
		switch {
		case err == nil:
			data[ViewProduct] = product
		case errors.Is(err, models.ErrProductNotFound):
			data[ViewErrorMessage] = services.MsgNotFound
		default:
			log.Printf("Error getting product by ID %d: %v", productID, err)
			data[ViewErrorMessage] = services.MsgFetchFailed
		}
	}
	return h.renderListing(c, data)
}

// HandlePost creates or updates the product submitted in the form.
func (h *ProductHandler) HandlePost(c *fiber.Ctx) error {
	product, err := h.productFromRequest(c)
	if err != nil {
		log.Printf("Error reading product form: %v", err)
		return h.renderListing(c, fiber.Map{
			ViewErrorMessage: services.MessageOf(err, services.MsgImageSaveFailed),
		})
	}

	if err := h.service.SaveProduct(product); err != nil {
		if services.KindOf(err) != services.KindValidation {
			log.Printf("Error saving product: %v", err)
		}
		return h.renderListing(c, fiber.Map{
			ViewErrorMessage: services.MessageOf(err, services.MsgSaveFailed),
			ViewProduct:      product,
		})
	}
	return c.Redirect(h.listingURL)
}

// HandleImage writes the stored image of the product named by produto.
func (h *ProductHandler) HandleImage(c *fiber.Ctx) error {
	productID := parseID(c.Query(ParamProduct))
	if productID == 0 {
		return fiber.ErrNotFound
	}

	product, err := h.service.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return fiber.ErrNotFound
		}
		log.Printf("Error getting image of product %d: %v", productID, err)
		return fiber.ErrInternalServerError
	}
	if !product.HasImage() {
		return fiber.ErrNotFound
	}

	c.Set(fiber.HeaderContentType, product.ImageContentType)
	return c.Send(product.Image)
}

// HandleError is the application error handler. A product form rejected for
// exceeding the body limit never reaches HandlePost, so it is answered here
// with the listing and the image message; other errors get fiber's default response.
func (h *ProductHandler) HandleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusRequestEntityTooLarge &&
		c.Method() == fiber.MethodPost && c.Path() == h.listingURL {
		log.Printf("Error reading product form: %v", err)
		return h.renderListing(c, fiber.Map{ViewErrorMessage: services.MsgImageSaveFailed})
	}
	return fiber.DefaultErrorHandler(c, err)
}

// renderListing adds the filtered product list to data and renders the listing view.
// A listing failure replaces any message already present.
func (h *ProductHandler) renderListing(c *fiber.Ctx, data fiber.Map) error {
	search := c.Query(ParamSearch)
	if search == "" && c.Method() == fiber.MethodPost {
		search = bodyValue(c, ParamSearch)
	}

	products, err := h.service.ListProducts(search)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		data[ViewErrorMessage] = services.MsgListFailed
		products = []models.Product{}
	}

	data[ViewProducts] = products
	data[ViewSearch] = search
	data[ViewListingURL] = h.listingURL
	return c.Render(ListingView, data)
}

// productFromRequest builds a product from the submitted form. Fields are read
// from the body only, so query parameters cannot turn an insert into an update.
// Only a malformed multipart body or an unreadable, oversized or non-image
// file is an error.
func (h *ProductHandler) productFromRequest(c *fiber.Ctx) (*models.Product, error) {
	product := &models.Product{
		ID:             parseID(bodyValue(c, FieldID)),
		Name:           bodyValue(c, FieldName),
		Price:          parsePrice(bodyValue(c, FieldPrice)),
		Quantity:       parseQuantity(bodyValue(c, FieldQuantity)),
		ExpirationDate: parseDate(bodyValue(c, FieldExpirationDate), h.service.Location()),
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return product, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, services.NewUploadError(services.MsgImageSaveFailed, err)
	}
	files := form.File[FieldImage]
	if len(files) == 0 || files[0].Size == 0 {
		return product, nil
	}

	if h.maxImageSize > 0 && files[0].Size > h.maxImageSize {
		return nil, services.NewUploadError(services.MsgImageSaveFailed,
			fmt.Errorf("uploaded file %s has %d bytes, limit is %d", files[0].Filename, files[0].Size, h.maxImageSize))
	}

	image, contentType, err := readImage(files[0])
	if err != nil {
		return nil, services.NewUploadError(services.MsgImageSaveFailed, err)
	}
	product.Image = image
	product.ImageContentType = contentType
	return product, nil
}

// bodyValue returns the first value of key in the multipart or urlencoded body.
func bodyValue(c *fiber.Ctx, key string) string {
	if form, err := c.MultipartForm(); err == nil {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	return string(c.Request().PostArgs().Peek(key))
}

func readImage(header *multipart.FileHeader) ([]byte, string, error) {
	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, "", fmt.Errorf("uploaded file %s is %s, not an image", header.Filename, mtype.String())
	}
	return data, mtype.String(), nil
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0
	}
	return uint(id)
}

func parseQuantity(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parsePrice accepts either a decimal point or a decimal comma.
func parsePrice(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDate(raw string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
