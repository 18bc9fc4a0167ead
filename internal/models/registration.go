package models

import "time"

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Attendee is one person covered by a registration. Attendees live inside the
// parent registration's list and have no lifecycle of their own.
type Attendee struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
	Dietary     string `json:"dietary,omitempty"`
	IsAttending bool   `json:"is_attending"`
}

// EventInfo is a denormalized copy of the event taken at submission time,
// not a live foreign key.
type EventInfo struct {
	ID       string `gorm:"not null" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type CompanyInfo struct {
	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"not null" json:"email"`
	Phone     string `gorm:"not null" json:"phone"`
	Address   string `json:"address"`
	Industry  string `json:"industry"`
	Size      string `json:"size"`
	Community string `json:"community"`
}

type ContactInfo struct {
	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"not null" json:"email"`
	Phone       string `gorm:"not null" json:"phone"`
	Designation string `json:"designation"`
}

// PricingSnapshot holds the amounts computed once at submission time and
// stored on the registration, never recomputed later.
type PricingSnapshot struct {
	AttendingCount int    `json:"attending_count"`
	TicketTypeName string `json:"ticket_type_name"`
	BaseAmount     int    `gorm:"not null" json:"base_amount"`
	DiscountAmount int    `gorm:"not null" json:"discount_amount"`
	TotalCost      int    `gorm:"not null" json:"total_cost"`
	Savings        int    `json:"savings"`
	CommunityName  string `json:"community_name"`
	IsFree         bool   `gorm:"not null" json:"is_free"`
}

// Registration is one company's submission to attend an event. Identity,
// event, company and contact fields are immutable after creation; only
// status, payment status, payment metadata and UpdatedAt change afterwards.
type Registration struct {
	ID           string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Event        EventInfo   `gorm:"embedded;embeddedPrefix:event_" json:"event"`
	Company      CompanyInfo `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	TicketTypeID string      `gorm:"not null" json:"ticket_type_id"`
	Contact      ContactInfo `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`

	Attendees []Attendee      `gorm:"serializer:json" json:"attendees"`
	Pricing   PricingSnapshot `gorm:"embedded;embeddedPrefix:pricing_" json:"pricing"`

	TermsAccepted   bool `gorm:"not null" json:"terms_accepted"`
	PrivacyAccepted bool `gorm:"not null" json:"privacy_accepted"`

	Status        RegistrationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	// Payment metadata, populated only after a successful payment. The order
	// id is written earlier, when the gateway order is created.
	PaymentOrderID   string     `json:"payment_order_id,omitempty"`
	PaymentID        string     `json:"payment_id,omitempty"`
	PaymentSignature string     `json:"-"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
