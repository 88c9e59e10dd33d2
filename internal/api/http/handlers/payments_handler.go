package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// PaymentsHandler exposes promotion purchase endpoints.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// Create handles POST /api/payments.
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TransactionID == "" || req.RestaurantID == 0 {
		return fiber.NewError(http.StatusBadRequest, "transaction_id and restaurant_id required")
	}

	payment, err := h.payments.CreatePayment(c.Context(), principal, req.TransactionID, req.RestaurantID)
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			return fiber.NewError(http.StatusNotFound, err.Error())
		case service.ErrNotRestaurantOwner:
			return fiber.NewError(http.StatusForbidden, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": paymentResponse(payment)})
}

// List handles GET /api/payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	payments, err := h.payments.GetPayments(c.Context(), principal)
	if err != nil {
		return err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, paymentResponse(payment))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"payments": out}})
}

func paymentResponse(payment *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            payment.ID,
		TransactionID: payment.TransactionID,
		RestaurantID:  payment.RestaurantID,
		CreatedAt:     payment.CreatedAt,
	}
}
