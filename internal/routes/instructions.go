package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payinstr/internal/payments"
)

// RegisterInstructionRoutes wires payment instruction endpoints.
func RegisterInstructionRoutes(r fiber.Router, h *payments.Handler, limiter fiber.Handler) {
	r.Post("/payment-instructions", limiter, h.Process)
	r.Get("/payment-instructions/scheduled", h.Scheduled)
	r.Get("/payment-instructions/journal", h.Journal)
}
