package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/orbis-events/registration-service/internal/dto"
	"github.com/orbis-events/registration-service/internal/models"
	"github.com/orbis-events/registration-service/internal/payment"
)

// --- Fake RegistrationRepository (in-memory) ---

type fakeRepo struct {
	store     map[string]*models.Registration
	createErr error
	updateErr error

	// findFn, when set, overrides FindByID (e.g. to serve a stale snapshot).
	findFn func(ctx context.Context, id string) (*models.Registration, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{store: map[string]*models.Registration{}}
}

func (f *fakeRepo) Create(ctx context.Context, reg *models.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *reg
	f.store[reg.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	reg, ok := f.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *reg
	return &cp, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	reg, ok := f.store[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.apply(reg, fields)
	return nil
}

// ConfirmPending mirrors the conditional UPDATE: the guard checks the stored
// record, not whatever the caller read earlier.
func (f *fakeRepo) ConfirmPending(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	reg, ok := f.store[id]
	if !ok || reg.Status != models.StatusPending {
		return false, nil
	}
	f.apply(reg, fields)
	return true, nil
}

func (f *fakeRepo) apply(reg *models.Registration, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "status":
			reg.Status = v.(models.RegistrationStatus)
		case "payment_status":
			reg.PaymentStatus = v.(models.PaymentStatus)
		case "payment_order_id":
			reg.PaymentOrderID = v.(string)
		case "payment_id":
			reg.PaymentID = v.(string)
		case "payment_signature":
			reg.PaymentSignature = v.(string)
		case "paid_at":
			t := v.(time.Time)
			reg.PaidAt = &t
		case "updated_at":
			reg.UpdatedAt = v.(time.Time)
		}
	}
}

// --- Fake payment.Gateway ---

type fakeGateway struct {
	createOrderFn func(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error)
	verifyFn      func(orderID, paymentID, signature string) bool
	orderCalls    int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error) {
	f.orderCalls++
	if f.createOrderFn != nil {
		return f.createOrderFn(ctx, amount, currency, receipt, notes)
	}
	return "order_test_1", nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if f.verifyFn != nil {
		return f.verifyFn(orderID, paymentID, signature)
	}
	return true
}

// --- Helpers ---

func sampleRequest() dto.RegistrationRequest {
	return dto.RegistrationRequest{
		Event: dto.EventInput{ID: "evt-1", Title: "Annual Summit", Date: "2026-10-14", Location: "Chennai"},
		Company: dto.CompanyInput{
			Name:      "Acme Logistics",
			Email:     "office@acme.example",
			Phone:     "+91 98765 43210",
			Community: "associate",
		},
		TicketTypeID: "general",
		Contact: dto.ContactInput{
			Name:        "Priya Raman",
			Email:       "priya@acme.example",
			Phone:       "+91 98765 00000",
			Designation: "Operations Head",
		},
		Attendees: []dto.AttendeeInput{
			{Name: "Priya Raman", Email: "priya@acme.example", Phone: "+91 98765 00000", Designation: "Operations Head", IsAttending: true},
		},
		TermsAccepted:   true,
		PrivacyAccepted: true,
	}
}

func newService(repo *fakeRepo, gw *fakeGateway) RegistrationService {
	return NewRegistrationService(repo, gw, nil, "INR") // nil publisher = skip RabbitMQ
}

// --- Submit ---

func TestSubmit_PaidRegistrationStartsPending(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	svc := newService(repo, gw)

	reg, err := svc.Submit(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, models.StatusPending, reg.Status)
	assert.Equal(t, models.PaymentPending, reg.PaymentStatus)
	assert.Equal(t, 7200, reg.Pricing.TotalCost)
	assert.Nil(t, reg.PaidAt)
	assert.Len(t, repo.store, 1)
	assert.Zero(t, gw.orderCalls)
}

func TestSubmit_FreeRegistrationConfirmedImmediately(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	svc := newService(repo, gw)

	req := sampleRequest()
	req.Company.Community = "partner"

	reg, err := svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, reg.Pricing.IsFree)
	assert.Equal(t, 0, reg.Pricing.TotalCost)
	assert.Equal(t, 8000, reg.Pricing.DiscountAmount)
	assert.Equal(t, 8000, reg.Pricing.Savings)
	assert.Equal(t, models.StatusConfirmed, reg.Status)
	assert.Equal(t, models.PaymentCompleted, reg.PaymentStatus)
	assert.NotNil(t, reg.PaidAt)
	assert.Zero(t, gw.orderCalls, "free registrations never reach the gateway")
}

func TestSubmit_InvalidInputPersistsNothing(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})

	req := sampleRequest()
	req.Company.Name = ""
	req.TermsAccepted = false

	reg, err := svc.Submit(context.Background(), req)

	require.Error(t, err)
	assert.Nil(t, reg)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "company.name")
	assert.Contains(t, verr.Fields, "terms_accepted")
	assert.Empty(t, repo.store)
}

func TestSubmit_PersistenceError(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("db connection failed")
	svc := newService(repo, &fakeGateway{})

	reg, err := svc.Submit(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.Nil(t, reg)
	assert.Contains(t, err.Error(), "db connection failed")
}

// --- InitiatePayment ---

func TestInitiatePayment_CreatesGatewayOrder(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{
		createOrderFn: func(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error) {
			assert.Equal(t, int64(720000), amount, "total cost in minor units")
			assert.Equal(t, "INR", currency)
			assert.Equal(t, "evt-1", notes["event_id"])
			return "order_abc", nil
		},
	}
	svc := newService(repo, gw)

	reg, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)

	checkout, err := svc.InitiatePayment(context.Background(), reg.ID)

	require.NoError(t, err)
	assert.Equal(t, "order_abc", checkout.OrderID)
	assert.Equal(t, int64(720000), checkout.Amount)
	assert.Contains(t, checkout.Description, "Annual Summit")
	assert.Contains(t, checkout.Description, "General Networking Pass")
	assert.Equal(t, "Priya Raman", checkout.PrefillName)
	assert.Equal(t, "order_abc", repo.store[reg.ID].PaymentOrderID)
}

func TestInitiatePayment_FreeRegistrationRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})

	req := sampleRequest()
	req.Company.Community = "partner"
	reg, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.InitiatePayment(context.Background(), reg.ID)
	assert.ErrorIs(t, err, ErrNoPaymentDue)
}

func TestInitiatePayment_UnknownID(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeGateway{})

	_, err := svc.InitiatePayment(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestInitiatePayment_GatewayError(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{
		createOrderFn: func(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error) {
			return "", errors.New("gateway timeout")
		},
	}
	svc := newService(repo, gw)

	reg, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)

	_, err = svc.InitiatePayment(context.Background(), reg.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentGateway)
	// Registration untouched and retryable.
	stored := repo.store[reg.ID]
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
}

// A failure storing the order id is a persistence problem, not a gateway
// outage, and must not be reported as one.
func TestInitiatePayment_OrderStoreError(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})

	reg, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)

	repo.updateErr = errors.New("db connection failed")

	_, err = svc.InitiatePayment(context.Background(), reg.ID)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentGateway)
	assert.Contains(t, err.Error(), "store payment order")
}

// --- CompletePayment ---

func submitAndInitiate(t *testing.T, svc RegistrationService) string {
	t.Helper()
	reg, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	_, err = svc.InitiatePayment(context.Background(), reg.ID)
	require.NoError(t, err)
	return reg.ID
}

func TestCompletePayment_SuccessConfirms(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{
		verifyFn: func(orderID, paymentID, signature string) bool {
			assert.Equal(t, "order_test_1", orderID)
			assert.Equal(t, "pay_123", paymentID)
			return true
		},
	}
	svc := newService(repo, gw)
	id := submitAndInitiate(t, svc)

	result, err := svc.CompletePayment(context.Background(), id, payment.Outcome{
		Kind:      payment.OutcomeSuccess,
		PaymentID: "pay_123",
		Signature: "sig_abc",
	})

	require.NoError(t, err)
	assert.Equal(t, payment.OutcomeSuccess, result.Outcome)
	assert.Equal(t, models.StatusConfirmed, result.Registration.Status)
	assert.Equal(t, models.PaymentCompleted, result.Registration.PaymentStatus)
	assert.Equal(t, "pay_123", result.Registration.PaymentID)
	assert.NotNil(t, result.Registration.PaidAt)

	stored := repo.store[id]
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.Equal(t, "pay_123", stored.PaymentID)
}

func TestCompletePayment_CancelledLeavesPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})
	id := submitAndInitiate(t, svc)

	result, err := svc.CompletePayment(context.Background(), id, payment.Outcome{Kind: payment.OutcomeCancelled})

	require.NoError(t, err)
	assert.Equal(t, payment.OutcomeCancelled, result.Outcome)

	stored := repo.store[id]
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
	assert.Empty(t, stored.PaymentID)
	assert.Nil(t, stored.PaidAt)
}

func TestCompletePayment_FailedLeavesPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})
	id := submitAndInitiate(t, svc)

	result, err := svc.CompletePayment(context.Background(), id, payment.Outcome{
		Kind:   payment.OutcomeFailed,
		Reason: "card declined",
	})

	require.NoError(t, err)
	assert.Equal(t, payment.OutcomeFailed, result.Outcome)
	assert.Equal(t, models.StatusPending, repo.store[id].Status)
}

func TestCompletePayment_InvalidSignatureRejected(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{
		verifyFn: func(orderID, paymentID, signature string) bool { return false },
	}
	svc := newService(repo, gw)
	id := submitAndInitiate(t, svc)

	_, err := svc.CompletePayment(context.Background(), id, payment.Outcome{
		Kind:      payment.OutcomeSuccess,
		PaymentID: "pay_123",
		Signature: "forged",
	})

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, models.StatusPending, repo.store[id].Status)
}

func TestCompletePayment_DuplicateSuccessRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})
	id := submitAndInitiate(t, svc)

	outcome := payment.Outcome{Kind: payment.OutcomeSuccess, PaymentID: "pay_1", Signature: "sig_1"}
	_, err := svc.CompletePayment(context.Background(), id, outcome)
	require.NoError(t, err)

	_, err = svc.CompletePayment(context.Background(), id, outcome)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

// The pending guard is enforced at the write, not only at the read: a stale
// pending snapshot cannot overwrite a registration confirmed in between.
func TestCompletePayment_StaleReadCannotDoubleConfirm(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})
	id := submitAndInitiate(t, svc)

	_, err := svc.CompletePayment(context.Background(), id, payment.Outcome{
		Kind:      payment.OutcomeSuccess,
		PaymentID: "pay_first",
		Signature: "sig_first",
	})
	require.NoError(t, err)

	// Serve the pre-confirmation snapshot, as a racing request would see it.
	stale := *repo.store[id]
	stale.Status = models.StatusPending
	stale.PaymentStatus = models.PaymentPending
	stale.PaymentID = ""
	repo.findFn = func(ctx context.Context, reqID string) (*models.Registration, error) {
		cp := stale
		return &cp, nil
	}

	_, err = svc.CompletePayment(context.Background(), id, payment.Outcome{
		Kind:      payment.OutcomeSuccess,
		PaymentID: "pay_second",
		Signature: "sig_second",
	})

	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, "pay_first", repo.store[id].PaymentID, "first confirmation must stand")
}

// One submission produces exactly one record for its whole lifetime, through
// a failed attempt and a successful retry.
func TestLifecycle_OneRecordThroughRetry(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})

	reg, err := svc.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Len(t, repo.store, 1)

	_, err = svc.InitiatePayment(context.Background(), reg.ID)
	require.NoError(t, err)

	_, err = svc.CompletePayment(context.Background(), reg.ID, payment.Outcome{Kind: payment.OutcomeFailed, Reason: "network error"})
	require.NoError(t, err)
	assert.Len(t, repo.store, 1)
	assert.Equal(t, models.StatusPending, repo.store[reg.ID].Status)

	// Retry.
	_, err = svc.InitiatePayment(context.Background(), reg.ID)
	require.NoError(t, err)

	result, err := svc.CompletePayment(context.Background(), reg.ID, payment.Outcome{
		Kind:      payment.OutcomeSuccess,
		PaymentID: "pay_retry",
		Signature: "sig_retry",
	})
	require.NoError(t, err)

	assert.Len(t, repo.store, 1)
	assert.Equal(t, reg.ID, result.Registration.ID)
	assert.Equal(t, models.StatusConfirmed, repo.store[reg.ID].Status)
	assert.Equal(t, models.PaymentCompleted, repo.store[reg.ID].PaymentStatus)
}
