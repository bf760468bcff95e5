package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/katakuxiko/paperrelay/internal/service"
)

const requestIDKey = "requestid"

// NewApp builds the fiber app with middleware and all routes registered.
func NewApp(relay *service.RelayService, maxUploadMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "paperrelay",
		BodyLimit:             (maxUploadMB + 1) << 20,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{AllowOrigins: "*"}))

	RegisterRoutes(app, relay, maxUploadMB)
	return app
}

func RegisterRoutes(app *fiber.App, relay *service.RelayService, maxUploadMB int) {
	h := NewHandler(relay, maxUploadMB)

	app.Get("/", h.Home)
	app.Get("/health", h.Health)
	app.Get("/api/message", h.MessageHint)
	app.Post("/api/message", h.Message)
	app.Post("/api/pdf", h.ExtractPDF)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorw("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
