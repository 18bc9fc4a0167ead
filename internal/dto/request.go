package dto

type EventInput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type CompanyInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address"`
	Industry  string `json:"industry"`
	Size      string `json:"size"`
	Community string `json:"community"`
}

type ContactInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Designation string `json:"designation"`
}

// AttendeeInput rows are only validated when the attendee is marked as
// attending; rows kept in the form but not attending are exempt.
type AttendeeInput struct {
	Name        string `json:"name" validate:"required_if=IsAttending true"`
	Email       string `json:"email" validate:"required_if=IsAttending true,omitempty,email"`
	Phone       string `json:"phone" validate:"required_if=IsAttending true"`
	Designation string `json:"designation" validate:"required_if=IsAttending true"`
	Dietary     string `json:"dietary"`
	IsAttending bool   `json:"is_attending"`
}

type RegistrationRequest struct {
	Event        EventInput      `json:"event"`
	Company      CompanyInput    `json:"company"`
	TicketTypeID string          `json:"ticket_type_id"`
	Contact      ContactInput    `json:"contact"`
	Attendees    []AttendeeInput `json:"attendees" validate:"dive"`

	TermsAccepted   bool `json:"terms_accepted" validate:"eq=true"`
	PrivacyAccepted bool `json:"privacy_accepted" validate:"eq=true"`
}

// QuoteRequest asks for a pricing preview without creating anything.
type QuoteRequest struct {
	TicketTypeID string          `json:"ticket_type_id"`
	CommunityID  string          `json:"community_id"`
	Attendees    []AttendeeInput `json:"attendees"`
}

// PaymentResultRequest reports the terminal outcome of the hosted checkout.
type PaymentResultRequest struct {
	Status    string `json:"status"` // success | cancelled | failed
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	Reason    string `json:"reason"`
}
