// Package refdata holds the fixed ticket-type and community-tier tables.
// Both are immutable lookup data loaded once; new tiers are added here,
// not in calculation logic.
package refdata

// TicketType is a purchasable pass tier with a fixed whole-unit base price.
type TicketType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// Community is a partner-community membership tier. DiscountPercent applies
// to the ticket price as a whole; FreeSlots marks tiers that carry a free
// ticket, but full-free status is keyed to FreeCommunityID alone.
type Community struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DiscountPercent int    `json:"discount_percent"`
	FreeSlots       int    `json:"free_slots"`
}

const (
	// DefaultTicketTypeID is the lowest tier, used when an unknown ticket id
	// comes in. Unknown ids fall back rather than fail.
	DefaultTicketTypeID = "general"

	// FreeCommunityID is the single tier whose members get a fully free
	// ticket. Other tiers only ever discount, whatever their slot count.
	FreeCommunityID = "partner"

	// NoCommunityID is the fallback for unknown community ids.
	NoCommunityID = "none"
)

var ticketTypes = map[string]TicketType{
	"general": {
		ID:          "general",
		Name:        "General Networking Pass",
		Price:       8000,
		Description: "Access to all sessions, networking lounge and the exhibitor floor.",
	},
	"support": {
		ID:          "support",
		Name:        "Active Support Pass",
		Price:       12000,
		Description: "Everything in the networking pass plus a sponsor listing and priority seating.",
	},
}

var communities = map[string]Community{
	"none":      {ID: "none", Name: "No Affiliation", DiscountPercent: 0, FreeSlots: 0},
	"associate": {ID: "associate", Name: "Associate Circle", DiscountPercent: 10, FreeSlots: 0},
	"network":   {ID: "network", Name: "Network Guild", DiscountPercent: 15, FreeSlots: 0},
	"alliance":  {ID: "alliance", Name: "Alliance Forum", DiscountPercent: 20, FreeSlots: 0},
	"partner":   {ID: "partner", Name: "Partner Collective", DiscountPercent: 100, FreeSlots: 1},
}

// Display order for UI dropdowns.
var ticketTypeOrder = []string{"general", "support"}
var communityOrder = []string{"none", "associate", "network", "alliance", "partner"}

// TicketTypeByID resolves a ticket id, falling back to the default tier for
// unknown ids. Total: never errors.
func TicketTypeByID(id string) TicketType {
	if t, ok := ticketTypes[id]; ok {
		return t
	}
	return ticketTypes[DefaultTicketTypeID]
}

// CommunityByID resolves a community id, treating unknown ids as no
// affiliation.
func CommunityByID(id string) Community {
	if c, ok := communities[id]; ok {
		return c
	}
	return communities[NoCommunityID]
}

// TicketTypes returns all tiers in display order.
func TicketTypes() []TicketType {
	out := make([]TicketType, 0, len(ticketTypeOrder))
	for _, id := range ticketTypeOrder {
		out = append(out, ticketTypes[id])
	}
	return out
}

// Communities returns all tiers in display order.
func Communities() []Community {
	out := make([]Community, 0, len(communityOrder))
	for _, id := range communityOrder {
		out = append(out, communities[id])
	}
	return out
}
