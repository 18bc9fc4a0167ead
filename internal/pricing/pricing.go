// Package pricing computes the cost snapshot stored on a registration.
package pricing

import (
	"math"

	"github.com/orbis-events/registration-service/internal/models"
	"github.com/orbis-events/registration-service/internal/refdata"
)

// Calculate derives the pricing snapshot for a ticket choice, community tier
// and attendee list. Pure: no I/O, no error paths. Unknown ticket ids fall
// back to the default tier, unknown community ids to no affiliation.
//
// One registration buys exactly one ticket price. The attendee count is
// informational and never multiplies the base amount.
//
// Percentage discounts round to the nearest whole currency unit, ties away
// from zero.
func Calculate(ticketTypeID, communityID string, attendees []models.Attendee) models.PricingSnapshot {
	ticket := refdata.TicketTypeByID(ticketTypeID)
	community := refdata.CommunityByID(communityID)

	attending := 0
	for _, a := range attendees {
		if a.IsAttending {
			attending++
		}
	}

	snap := models.PricingSnapshot{
		AttendingCount: attending,
		TicketTypeName: ticket.Name,
		BaseAmount:     ticket.Price,
		CommunityName:  community.Name,
	}

	switch {
	case community.FreeSlots > 0 && community.ID == refdata.FreeCommunityID:
		// Full-free status is tied to the one designated tier, not to slot
		// count alone.
		snap.IsFree = true
		snap.DiscountAmount = ticket.Price
		snap.TotalCost = 0
	case community.DiscountPercent > 0:
		snap.DiscountAmount = int(math.Round(float64(ticket.Price) * float64(community.DiscountPercent) / 100))
		snap.TotalCost = ticket.Price - snap.DiscountAmount
	default:
		snap.DiscountAmount = 0
		snap.TotalCost = ticket.Price
	}

	snap.Savings = snap.BaseAmount - snap.TotalCost
	return snap
}
