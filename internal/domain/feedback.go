package domain

import "time"

// Platform enumerates the sources feedback arrives from.
type Platform string

const (
	PlatformCanny   Platform = "Canny"
	PlatformDiscord Platform = "Discord"
	PlatformEmail   Platform = "Email"
	PlatformGitHub  Platform = "GitHub"
	PlatformInApp   Platform = "In-App"
	PlatformTwitter Platform = "Twitter"
)

var AllPlatforms = []Platform{
	PlatformCanny, PlatformDiscord, PlatformEmail,
	PlatformGitHub, PlatformInApp, PlatformTwitter,
}

func (p Platform) Valid() bool {
	for _, v := range AllPlatforms {
		if p == v {
			return true
		}
	}
	return false
}

// Feedback is a feature-request or feedback record from an external platform.
// Acknowledged and Shipped are tri-state: nil means the team has not decided yet.
type Feedback struct {
	ID           int64      `json:"id"`
	TicketID     *int64     `json:"ticket_id,omitempty"`
	Platform     Platform   `json:"platform"`
	Product      string     `json:"product"`
	Description  string     `json:"description"`
	Acknowledged *bool      `json:"acknowledged,omitempty"`
	Shipped      *bool      `json:"shipped,omitempty"`
	ShippedDate  *time.Time `json:"shipped_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
