package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orbis-events/registration-service/internal/dto"
	"github.com/orbis-events/registration-service/internal/models"
	"github.com/orbis-events/registration-service/internal/payment"
	"github.com/orbis-events/registration-service/internal/pricing"
	"github.com/orbis-events/registration-service/internal/refdata"
	"github.com/orbis-events/registration-service/internal/service"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/registrations", h.Submit)
	api.GET("/registrations/:id", h.GetRegistration)
	api.POST("/registrations/:id/payment/order", h.InitiatePayment)
	api.POST("/registrations/:id/payment", h.CompletePayment)

	api.POST("/pricing/quote", h.Quote)
	api.GET("/reference/ticket-types", h.ListTicketTypes)
	api.GET("/reference/communities", h.ListCommunities)
}

func (h *RegistrationHandler) Submit(c echo.Context) error {
	var req dto.RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reg, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
				Message: "registration input invalid",
				Fields:  verr.Fields,
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not save registration, please try again")
	}

	return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) GetRegistration(c echo.Context) error {
	reg, err := h.svc.GetRegistration(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registration not found")
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) InitiatePayment(c echo.Context) error {
	checkout, err := h.svc.InitiatePayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyConfirmed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNoPaymentDue), errors.Is(err, service.ErrRegistrationCancelled):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPaymentGateway):
			return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unavailable, please try again")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "could not save registration, please try again")
		}
	}
	return c.JSON(http.StatusOK, checkout)
}

func (h *RegistrationHandler) CompletePayment(c echo.Context) error {
	var req dto.PaymentResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	outcome, err := toOutcome(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.CompletePayment(c.Request().Context(), c.Param("id"), outcome)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyConfirmed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrRegistrationCancelled):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidSignature):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "could not record payment, please try again")
		}
	}

	return c.JSON(http.StatusOK, toPaymentResultResponse(result))
}

// Quote runs the pricing calculator without creating anything, so the form
// can show live totals as the user picks a ticket or community tier.
func (h *RegistrationHandler) Quote(c echo.Context) error {
	var req dto.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	attendees := make([]models.Attendee, len(req.Attendees))
	for i, a := range req.Attendees {
		attendees[i] = models.Attendee{IsAttending: a.IsAttending}
	}

	return c.JSON(http.StatusOK, pricing.Calculate(req.TicketTypeID, req.CommunityID, attendees))
}

func (h *RegistrationHandler) ListTicketTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, refdata.TicketTypes())
}

func (h *RegistrationHandler) ListCommunities(c echo.Context) error {
	return c.JSON(http.StatusOK, refdata.Communities())
}

func toOutcome(req dto.PaymentResultRequest) (payment.Outcome, error) {
	switch payment.OutcomeKind(req.Status) {
	case payment.OutcomeSuccess:
		if req.PaymentID == "" || req.Signature == "" {
			return payment.Outcome{}, errors.New("payment_id and signature are required for a successful payment")
		}
		return payment.Outcome{Kind: payment.OutcomeSuccess, PaymentID: req.PaymentID, Signature: req.Signature}, nil
	case payment.OutcomeCancelled:
		return payment.Outcome{Kind: payment.OutcomeCancelled}, nil
	case payment.OutcomeFailed:
		return payment.Outcome{Kind: payment.OutcomeFailed, Reason: req.Reason}, nil
	default:
		return payment.Outcome{}, errors.New("status must be one of success, cancelled, failed")
	}
}

func toPaymentResultResponse(result *service.PaymentResult) dto.PaymentResultResponse {
	reg := result.Registration
	resp := dto.PaymentResultResponse{
		RegistrationID: reg.ID,
		Status:         reg.Status,
		PaymentStatus:  reg.PaymentStatus,
	}

	switch result.Outcome {
	case payment.OutcomeSuccess:
		resp.Message = "payment received, registration confirmed"
	case payment.OutcomeCancelled:
		resp.Retryable = true
		resp.Message = "payment cancelled; your registration is saved and payment can be completed later"
	default:
		resp.Retryable = true
		resp.Message = "payment failed; your registration is saved and payment can be retried"
	}
	return resp
}
