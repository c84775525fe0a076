package domain

import "time"

// Status enumerates the ticket lifecycle states.
type Status string

const (
	StatusNew             Status = "New"
	StatusOpen            Status = "Open"
	StatusInProgress      Status = "In Progress"
	StatusPendingCustomer Status = "Pending Customer"
	StatusPendingInternal Status = "Pending Internal"
	StatusEscalated       Status = "Escalated"
	StatusOnHold          Status = "On Hold"
	StatusReopened        Status = "Reopened"
	StatusResolved        Status = "Resolved"
	StatusClosed          Status = "Closed"
	StatusDuplicate       Status = "Duplicate"
	StatusWontFix         Status = "Won't Fix"
)

// AllStatuses lists every valid ticket status.
var AllStatuses = []Status{
	StatusNew, StatusOpen, StatusInProgress, StatusPendingCustomer,
	StatusPendingInternal, StatusEscalated, StatusOnHold, StatusReopened,
	StatusResolved, StatusClosed, StatusDuplicate, StatusWontFix,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the status represents a finished ticket.
func (s Status) Terminal() bool {
	switch s {
	case StatusResolved, StatusClosed, StatusDuplicate, StatusWontFix:
		return true
	}
	return false
}

// Severity enumerates incident severity, SEV-1 being the most urgent.
type Severity string

const (
	Sev1 Severity = "SEV-1"
	Sev2 Severity = "SEV-2"
	Sev3 Severity = "SEV-3"
	Sev4 Severity = "SEV-4"
	Sev5 Severity = "SEV-5"
)

var AllSeverities = []Severity{Sev1, Sev2, Sev3, Sev4, Sev5}

func (s Severity) Valid() bool {
	for _, v := range AllSeverities {
		if s == v {
			return true
		}
	}
	return false
}

// Ticket is a support issue record.
type Ticket struct {
	ID           int64      `json:"id"`
	Status       Status     `json:"status"`
	Severity     Severity   `json:"severity"`
	Description  string     `json:"description"`
	Contact      string     `json:"contact"`
	ProductTags  []string   `json:"product_tags"`
	CategoryTags []string   `json:"category_tags"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// Tags returns the union of product and category tags.
func (t Ticket) Tags() []string {
	out := make([]string, 0, len(t.ProductTags)+len(t.CategoryTags))
	out = append(out, t.ProductTags...)
	out = append(out, t.CategoryTags...)
	return out
}
