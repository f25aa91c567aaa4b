package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"gerenciador/internal/config"
	"gerenciador/internal/database"
	"gerenciador/internal/handlers"
	"gerenciador/internal/models"
	"gerenciador/internal/repositories"
	"gerenciador/internal/server"
	"gerenciador/internal/services"
	"gerenciador/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Repository ---
	productRepo, err := newProductRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize product repository: %v", err)
	}

	// --- Services ---
	opts := []services.Option{services.WithLocation(loc)}

	// Product events are optional; without a broker URL the service skips publication.
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: services.ProductExchange})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		opts = append(opts, services.WithPublisher(mqClient))
		if err := mqClient.ConsumeProductEvents(logProductEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}
	productService := services.NewProductService(productRepo, opts...)

	// --- Handlers and app ---
	productHandler := handlers.NewProductHandler(productService, cfg.ListingURL, int64(cfg.MaxUploadSize))
	app := server.NewApp(productHandler, server.Options{BodyLimit: cfg.MaxRequestSize})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newProductRepository returns the repository selected by DATABASE_DRIVER.
func newProductRepository(cfg config.Config) (repositories.ProductRepository, error) {
	if cfg.DatabaseDriver == "memory" {
		return repositories.NewMockProductRepository(), nil
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return repositories.NewGORMProductRepository(db), nil
}

func logProductEvent(msg amqp.Delivery) error {
	var event models.ProductEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		// Unparseable events are dropped rather than requeued forever.
		log.Printf("Discarding malformed product event %s: %v", msg.MessageId, err)
		return nil
	}
	log.Printf("Received %s event for product %d (message %s)", event.Type, event.ProductID, msg.MessageId)
	return nil
}
