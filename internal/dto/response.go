package dto

import (
	"time"

	"github.com/orbis-events/registration-service/internal/models"
)

type RegistrationResponse struct {
	ID            string                    `json:"id"`
	Event         models.EventInfo          `json:"event"`
	Company       models.CompanyInfo        `json:"company"`
	TicketTypeID  string                    `json:"ticket_type_id"`
	Contact       models.ContactInfo        `json:"contact"`
	Attendees     []models.Attendee         `json:"attendees"`
	Pricing       models.PricingSnapshot    `json:"pricing"`
	Status        models.RegistrationStatus `json:"status"`
	PaymentStatus models.PaymentStatus      `json:"payment_status"`
	PaymentID     string                    `json:"payment_id,omitempty"`
	PaidAt        *time.Time                `json:"paid_at,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// CheckoutResponse carries what the UI needs to open the hosted payment page.
type CheckoutResponse struct {
	RegistrationID string `json:"registration_id"`
	OrderID        string `json:"order_id"`
	Amount         int64  `json:"amount"` // minor units
	Currency       string `json:"currency"`
	Description    string `json:"description"`
	PrefillName    string `json:"prefill_name"`
	PrefillEmail   string `json:"prefill_email"`
	PrefillPhone   string `json:"prefill_phone"`
}

// PaymentResultResponse reports where the registration landed after a
// checkout outcome was recorded. Cancelled and failed payments leave it
// pending and retryable.
type PaymentResultResponse struct {
	RegistrationID string                    `json:"registration_id"`
	Status         models.RegistrationStatus `json:"status"`
	PaymentStatus  models.PaymentStatus      `json:"payment_status"`
	Retryable      bool                      `json:"retryable"`
	Message        string                    `json:"message"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:            r.ID,
		Event:         r.Event,
		Company:       r.Company,
		TicketTypeID:  r.TicketTypeID,
		Contact:       r.Contact,
		Attendees:     r.Attendees,
		Pricing:       r.Pricing,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		PaymentID:     r.PaymentID,
		PaidAt:        r.PaidAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
