package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orbis-events/registration-service/internal/dto"
	"github.com/orbis-events/registration-service/internal/models"
	"github.com/orbis-events/registration-service/internal/payment"
	"github.com/orbis-events/registration-service/internal/pricing"
	"github.com/orbis-events/registration-service/internal/repository"
	"github.com/orbis-events/registration-service/internal/validation"
	"github.com/orbis-events/registration-service/pkg/rabbitmq"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrNoPaymentDue          = errors.New("registration is free, no payment due")
	ErrAlreadyConfirmed      = errors.New("registration is already confirmed")
	ErrRegistrationCancelled = errors.New("registration has been cancelled")
	ErrInvalidSignature      = errors.New("payment signature verification failed")
	ErrPaymentGateway        = errors.New("payment gateway unavailable")
)

// PaymentResult is the recorded outcome of a checkout attempt. Cancelled and
// failed attempts are expected results, not errors: the registration stays
// pending and retryable.
type PaymentResult struct {
	Registration *models.Registration
	Outcome      payment.OutcomeKind
}

// ValidationError carries the full field-error map back to the caller.
// Nothing is persisted when Submit returns one.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("registration input invalid: %d field error(s)", len(e.Fields))
}

type RegistrationService interface {
	Submit(ctx context.Context, req dto.RegistrationRequest) (*models.Registration, error)
	InitiatePayment(ctx context.Context, id string) (*dto.CheckoutResponse, error)
	CompletePayment(ctx context.Context, id string, outcome payment.Outcome) (*PaymentResult, error)
	GetRegistration(ctx context.Context, id string) (*models.Registration, error)
}

type registrationService struct {
	repo      repository.RegistrationRepository
	gateway   payment.Gateway
	publisher *rabbitmq.Publisher
	currency  string
}

func NewRegistrationService(repo repository.RegistrationRepository, gateway payment.Gateway, publisher *rabbitmq.Publisher, currency string) RegistrationService {
	return &registrationService{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		currency:  currency,
	}
}

// Submit validates the input, prices it, and persists exactly one
// registration. Free registrations are confirmed immediately and never enter
// the payment flow; paid ones start out pending/pending.
func (s *registrationService) Submit(ctx context.Context, req dto.RegistrationRequest) (*models.Registration, error) {
	if fieldErrs := validation.Check(req); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	attendees := toAttendees(req.Attendees)
	snap := pricing.Calculate(req.TicketTypeID, req.Company.Community, attendees)

	reg := &models.Registration{
		ID: uuid.NewString(),
		Event: models.EventInfo{
			ID:       req.Event.ID,
			Title:    req.Event.Title,
			Date:     req.Event.Date,
			Location: req.Event.Location,
		},
		Company: models.CompanyInfo{
			Name:      req.Company.Name,
			Email:     req.Company.Email,
			Phone:     req.Company.Phone,
			Address:   req.Company.Address,
			Industry:  req.Company.Industry,
			Size:      req.Company.Size,
			Community: req.Company.Community,
		},
		TicketTypeID: req.TicketTypeID,
		Contact: models.ContactInfo{
			Name:        req.Contact.Name,
			Email:       req.Contact.Email,
			Phone:       req.Contact.Phone,
			Designation: req.Contact.Designation,
		},
		Attendees:       attendees,
		Pricing:         snap,
		TermsAccepted:   req.TermsAccepted,
		PrivacyAccepted: req.PrivacyAccepted,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentPending,
	}

	if snap.IsFree {
		// Nothing to collect: terminal immediately, no payment step.
		now := time.Now()
		reg.Status = models.StatusConfirmed
		reg.PaymentStatus = models.PaymentCompleted
		reg.PaidAt = &now
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.publish("registration.created", reg)
	if snap.IsFree {
		s.publish("registration.confirmed", reg)
	}

	return reg, nil
}

// InitiatePayment opens a gateway order for a pending paid registration.
// The registration record must already exist; the order is keyed back to it
// through the receipt and notes.
func (s *registrationService) InitiatePayment(ctx context.Context, id string) (*dto.CheckoutResponse, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}

	if reg.Pricing.IsFree {
		return nil, ErrNoPaymentDue
	}
	switch reg.Status {
	case models.StatusConfirmed:
		return nil, ErrAlreadyConfirmed
	case models.StatusCancelled:
		return nil, ErrRegistrationCancelled
	}

	amount := int64(reg.Pricing.TotalCost) * 100 // gateway wants minor units
	description := fmt.Sprintf("%s - %s", reg.Event.Title, reg.Pricing.TicketTypeName)

	orderID, err := s.gateway.CreateOrder(ctx, amount, s.currency, reg.ID, map[string]string{
		"registration_id": reg.ID,
		"event_id":        reg.Event.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	if err := s.repo.Update(ctx, reg.ID, map[string]any{
		"payment_order_id": orderID,
		"updated_at":       time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("store payment order: %w", err)
	}

	return &dto.CheckoutResponse{
		RegistrationID: reg.ID,
		OrderID:        orderID,
		Amount:         amount,
		Currency:       s.currency,
		Description:    description,
		PrefillName:    reg.Contact.Name,
		PrefillEmail:   reg.Contact.Email,
		PrefillPhone:   reg.Contact.Phone,
	}, nil
}

// CompletePayment applies a terminal checkout outcome to the registration
// created by Submit, always the same record and never a new one. Cancelled and
// failed outcomes leave it pending so payment can be retried later.
func (s *registrationService) CompletePayment(ctx context.Context, id string, outcome payment.Outcome) (*PaymentResult, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}

	switch reg.Status {
	case models.StatusConfirmed:
		return nil, ErrAlreadyConfirmed
	case models.StatusCancelled:
		return nil, ErrRegistrationCancelled
	}

	switch outcome.Kind {
	case payment.OutcomeSuccess:
		if !s.gateway.VerifySignature(reg.PaymentOrderID, outcome.PaymentID, outcome.Signature) {
			return nil, ErrInvalidSignature
		}

		// The pending guard sits inside the UPDATE so a racing confirmation
		// of the same registration cannot be applied twice.
		now := time.Now()
		confirmed, err := s.repo.ConfirmPending(ctx, reg.ID, map[string]any{
			"status":            models.StatusConfirmed,
			"payment_status":    models.PaymentCompleted,
			"payment_id":        outcome.PaymentID,
			"payment_signature": outcome.Signature,
			"paid_at":           now,
			"updated_at":        now,
		})
		if err != nil {
			return nil, fmt.Errorf("record payment: %w", err)
		}
		if !confirmed {
			return nil, ErrAlreadyConfirmed
		}

		reg.Status = models.StatusConfirmed
		reg.PaymentStatus = models.PaymentCompleted
		reg.PaymentID = outcome.PaymentID
		reg.PaymentSignature = outcome.Signature
		reg.PaidAt = &now
		reg.UpdatedAt = now

		s.publish("registration.confirmed", reg)
		return &PaymentResult{Registration: reg, Outcome: payment.OutcomeSuccess}, nil

	case payment.OutcomeCancelled:
		// User closed the hosted page. The record stays untouched for retry.
		return &PaymentResult{Registration: reg, Outcome: payment.OutcomeCancelled}, nil

	default:
		return &PaymentResult{Registration: reg, Outcome: payment.OutcomeFailed}, nil
	}
}

func (s *registrationService) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

// publish announces a lifecycle event; a nil publisher (tests) skips it and
// publish failures never fail the request.
func (s *registrationService) publish(routingKey string, reg *models.Registration) {
	if s.publisher != nil {
		_ = s.publisher.Publish(routingKey, reg)
	}
}

func toAttendees(in []dto.AttendeeInput) []models.Attendee {
	out := make([]models.Attendee, len(in))
	for i, a := range in {
		out[i] = models.Attendee{
			Name:        a.Name,
			Email:       a.Email,
			Phone:       a.Phone,
			Designation: a.Designation,
			Dietary:     a.Dietary,
			IsAttending: a.IsAttending,
		}
	}
	return out
}
