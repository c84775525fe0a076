package service

import "time"

// CreateTicketInput carries a new ticket submission. Status and Severity fall
// back to "New" and "SEV-3" when empty.
type CreateTicketInput struct {
	Status       string   `json:"status"`
	Severity     string   `json:"severity"`
	Description  string   `json:"description"`
	Contact      string   `json:"contact"`
	ProductTags  []string `json:"product_tags"`
	CategoryTags []string `json:"category_tags"`
}

// UpdateTicketInput overlays the persisted ticket; nil fields keep their
// stored value, the record is then written back in full.
type UpdateTicketInput struct {
	Status       *string   `json:"status"`
	Severity     *string   `json:"severity"`
	Description  *string   `json:"description"`
	Contact      *string   `json:"contact"`
	ProductTags  *[]string `json:"product_tags"`
	CategoryTags *[]string `json:"category_tags"`
}

// CreateFeedbackInput carries a new feedback submission.
type CreateFeedbackInput struct {
	TicketID     *int64     `json:"ticket_id"`
	Platform     string     `json:"platform"`
	Product      string     `json:"product"`
	Description  string     `json:"description"`
	Acknowledged *bool      `json:"acknowledged"`
	Shipped      *bool      `json:"shipped"`
	ShippedDate  *time.Time `json:"shipped_date"`
}

// UpdateFeedbackInput overlays the persisted feedback record, same semantics
// as UpdateTicketInput.
type UpdateFeedbackInput struct {
	TicketID     *int64     `json:"ticket_id"`
	Platform     *string    `json:"platform"`
	Product      *string    `json:"product"`
	Description  *string    `json:"description"`
	Acknowledged *bool      `json:"acknowledged"`
	Shipped      *bool      `json:"shipped"`
	ShippedDate  *time.Time `json:"shipped_date"`
}
