// Package server assembles the fiber application.
package server

import (
	"net/http"
	"time"

	"gerenciador/internal/handlers"
	"gerenciador/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
)

// Options configures the application.
type Options struct {
	// BodyLimit caps the request body size, uploads included. Zero keeps fiber's default.
	// It should exceed the handler's image cap so that oversized images reach the handler.
	BodyLimit int
	// DisableRequestLog turns off the access log middleware.
	DisableRequestLog bool
}

// NewViews returns the HTML engine for the embedded templates.
func NewViews() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Views()), ".html")
	engine.AddFunc("formatDate", formatDate)
	return engine
}

// NewApp creates the fiber application serving the product catalog.
func NewApp(productHandler *handlers.ProductHandler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        NewViews(),
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: productHandler.HandleError,
		// Form values end up in repositories that outlive the request.
		Immutable: true,
	})

	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}

	productHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
