package api

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/katakuxiko/paperrelay/internal/model"
	"github.com/katakuxiko/paperrelay/internal/pdf"
	"github.com/katakuxiko/paperrelay/internal/service"
)

const (
	homeText    = "Relay server is running. Send POST requests to /api/message"
	messageHint = "Use POST with JSON {\"text\": \"...\", \"label\": \"translate|explain\"}"
)

// Handler keeps the dependencies shared by all routes
type Handler struct {
	relay       *service.RelayService
	maxUploadMB int
}

// NewHandler constructor
func NewHandler(relay *service.RelayService, maxUploadMB int) *Handler {
	return &Handler{relay: relay, maxUploadMB: maxUploadMB}
}

// Home: static informational text
func (h *Handler) Home(c *fiber.Ctx) error {
	return c.SendString(homeText)
}

// Health: simple liveness probe
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// MessageHint: GET /api/message only explains how to use the endpoint
func (h *Handler) MessageHint(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": messageHint})
}

// Message: relays the text to the upstream model and streams fragments back
func (h *Handler) Message(c *fiber.Ctx) error {
	// missing or malformed bodies leave both fields empty
	var req model.MessageRequest
	if body := c.Body(); len(body) > 0 {
		if err := c.App().Config().JSONDecoder(body, &req); err != nil {
			log.Debugw("ignoring malformed message body", "error", err)
		}
	}

	ctx, cancel := context.WithCancel(c.UserContext())
	stream, v, err := h.relay.Open(ctx, req)
	if err != nil {
		cancel()
		log.Errorw("upstream open failed", "label", req.Label, "model", v.Model, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	reqID, _ := c.Locals(requestIDKey).(string)
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// fiber.Ctx must not be touched after the handler returns; the writer
	// runs later, so it only uses values captured above.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stream.Close()

		n, err := h.relay.Pump(stream, w, w.Flush)
		if err != nil {
			log.Warnw("relay stream ended early", "request_id", reqID, "model", v.Model, "bytes", n, "error", err)
			return
		}
		log.Debugw("relay stream done", "request_id", reqID, "model", v.Model, "bytes", n)
	})
	return nil
}

// ExtractPDF: reads an uploaded PDF and returns its text, DOI and digest
func (h *Handler) ExtractPDF(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required (form field: file)"})
	}
	if file.Size > int64(h.maxUploadMB)<<20 {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "file too large"})
	}

	f, err := file.Open()
	if err != nil {
		log.Errorw("open upload failed", "file", file.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		log.Errorw("read upload failed", "file", file.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}

	doc, err := pdf.Extract(data)
	if errors.Is(err, pdf.ErrNoText) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "pages": doc.Pages, "sha256": doc.SHA256})
	}
	if err != nil {
		log.Infow("pdf extract failed", "file", file.Filename, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to extract text from pdf"})
	}

	return c.JSON(doc)
}
