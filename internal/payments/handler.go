package payments

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/middleware"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// Handler exposes payment instruction endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment instruction handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Process runs one payment instruction. Successful and pending outcomes
// return 200, failed ones 400; the body is always a Response.
func (h *Handler) Process(c *fiber.Ctx) error {
	ctx := ContextWithRequestID(c.UserContext(), middleware.GetRequestID(c))

	var (
		req  Request
		resp Response
	)
	if err := c.BodyParser(&req); err != nil {
		resp = h.service.Reject(ctx, err)
	} else {
		resp = h.service.Process(ctx, req)
	}

	middleware.SetStatusCode(c, string(resp.StatusCode))
	return c.Status(resp.HTTPStatus()).JSON(resp)
}

// Scheduled lists pending transfers due on or before the "due" query date,
// today (UTC) by default.
func (h *Handler) Scheduled(c *fiber.Ctx) error {
	day := h.service.Today()
	if raw := c.Query("due"); raw != "" {
		d, ok := instruction.ExecutionDate(raw)
		if !ok {
			return fiber.NewError(http.StatusBadRequest, "due must be a YYYY-MM-DD date")
		}
		day = d
	}

	entries, err := h.service.Scheduled(c.UserContext(), day)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"due":       day.Format("2006-01-02"),
		"transfers": entries,
	})
}

// Journal lists the most recently processed instructions.
func (h *Handler) Journal(c *fiber.Ctx) error {
	limit := defaultJournalLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fiber.NewError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxJournalLimit)
	}

	entries, err := h.service.Recent(c.UserContext(), limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"entries": entries})
}
