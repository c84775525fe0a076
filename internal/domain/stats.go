package domain

// TicketStats is the dashboard roll-up over the ticket table.
type TicketStats struct {
	Total      int64            `json:"total"`
	Open       int64            `json:"open"`
	Resolved   int64            `json:"resolved"`
	ByStatus   map[string]int64 `json:"by_status"`
	BySeverity map[string]int64 `json:"by_severity"`
}

// FeedbackStats is the dashboard roll-up over the feedback table.
type FeedbackStats struct {
	Total        int64            `json:"total"`
	Acknowledged int64            `json:"acknowledged"`
	Shipped      int64            `json:"shipped"`
	ByPlatform   map[string]int64 `json:"by_platform"`
}
