package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"

	"github.com/orbis-events/registration-service/config"
	"github.com/orbis-events/registration-service/internal/handler"
	"github.com/orbis-events/registration-service/internal/middleware"
	"github.com/orbis-events/registration-service/internal/payment"
	"github.com/orbis-events/registration-service/internal/repository"
	"github.com/orbis-events/registration-service/internal/service"
	"github.com/orbis-events/registration-service/pkg/database"
	"github.com/orbis-events/registration-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	repo := repository.NewRegistrationRepository(db)
	svc := service.NewRegistrationService(repo, gateway, publisher, cfg.PaymentCurrency)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "registration-service"})
	})

	handler.NewRegistrationHandler(svc).RegisterRoutes(e)

	log.Printf("Registration Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
