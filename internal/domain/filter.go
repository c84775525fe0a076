package domain

import (
	"strings"
	"time"
)

// TicketFilter narrows a ticket listing. All set clauses are ANDed together;
// zero values mean "no restriction".
type TicketFilter struct {
	Statuses   []Status
	Severities []Severity
	Tags       []string
	Search     string
	From       *time.Time
	To         *time.Time
}

func (f TicketFilter) Empty() bool {
	return len(f.Statuses) == 0 && len(f.Severities) == 0 && len(f.Tags) == 0 &&
		f.Search == "" && f.From == nil && f.To == nil
}

// Matches evaluates the filter against a ticket in memory.
func (f TicketFilter) Matches(t Ticket) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
		return false
	}
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, t.Severity) {
		return false
	}
	if len(f.Tags) > 0 && !anyTagMatch(f.Tags, t.Tags()) {
		return false
	}
	if f.Search != "" && !searchMatch(f.Search, t.Description, t.Contact, strings.Join(t.Tags(), " ")) {
		return false
	}
	return inRange(t.CreatedAt, f.From, f.To)
}

// FeedbackFilter narrows a feedback listing, same AND semantics as TicketFilter.
type FeedbackFilter struct {
	Platforms    []Platform
	Product      string
	Acknowledged *bool
	Shipped      *bool
	Search       string
	From         *time.Time
	To           *time.Time
}

func (f FeedbackFilter) Empty() bool {
	return len(f.Platforms) == 0 && f.Product == "" && f.Acknowledged == nil &&
		f.Shipped == nil && f.Search == "" && f.From == nil && f.To == nil
}

// Matches evaluates the filter against a feedback record in memory.
func (f FeedbackFilter) Matches(fb Feedback) bool {
	if len(f.Platforms) > 0 && !containsPlatform(f.Platforms, fb.Platform) {
		return false
	}
	if f.Product != "" && !strings.EqualFold(f.Product, fb.Product) {
		return false
	}
	if f.Acknowledged != nil && !boolMatch(f.Acknowledged, fb.Acknowledged) {
		return false
	}
	if f.Shipped != nil && !boolMatch(f.Shipped, fb.Shipped) {
		return false
	}
	if f.Search != "" && !searchMatch(f.Search, fb.Product, fb.Description) {
		return false
	}
	return inRange(fb.CreatedAt, f.From, f.To)
}

func containsStatus(set []Status, s Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsSeverity(set []Severity, s Severity) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsPlatform(set []Platform, p Platform) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}

// anyTagMatch reports whether the two tag sets intersect, case-insensitively.
func anyTagMatch(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}

// searchMatch does a case-insensitive substring scan over the given fields.
func searchMatch(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// inRange checks ts against inclusive bounds; nil bounds are open.
func inRange(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}

func boolMatch(want, have *bool) bool {
	return have != nil && *have == *want
}
