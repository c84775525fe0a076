package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"supportdesk/internal/domain"
)

// parseTicketFilter builds a domain filter from list query parameters:
// status and severity (comma-separated sets), tags (comma-separated,
// any-match), q (substring search) and from/to (inclusive date range).
func parseTicketFilter(c *gin.Context) (domain.TicketFilter, error) {
	var filter domain.TicketFilter

	for _, raw := range splitParam(c.Query("status")) {
		s := domain.Status(raw)
		if !s.Valid() {
			return domain.TicketFilter{}, fmt.Errorf("unknown status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, s)
	}
	for _, raw := range splitParam(c.Query("severity")) {
		s := domain.Severity(raw)
		if !s.Valid() {
			return domain.TicketFilter{}, fmt.Errorf("unknown severity %q", raw)
		}
		filter.Severities = append(filter.Severities, s)
	}
	filter.Tags = splitParam(c.Query("tags"))
	filter.Search = strings.TrimSpace(c.Query("q"))

	var err error
	if filter.From, filter.To, err = parseDateRange(c); err != nil {
		return domain.TicketFilter{}, err
	}
	return filter, nil
}

// parseFeedbackFilter mirrors parseTicketFilter for the feedback listing, with
// platform sets, a product match and tri-state acknowledged/shipped flags.
func parseFeedbackFilter(c *gin.Context) (domain.FeedbackFilter, error) {
	var filter domain.FeedbackFilter

	for _, raw := range splitParam(c.Query("platform")) {
		p := domain.Platform(raw)
		if !p.Valid() {
			return domain.FeedbackFilter{}, fmt.Errorf("unknown platform %q", raw)
		}
		filter.Platforms = append(filter.Platforms, p)
	}
	filter.Product = strings.TrimSpace(c.Query("product"))
	filter.Search = strings.TrimSpace(c.Query("q"))

	var err error
	if filter.Acknowledged, err = parseBoolParam(c, "acknowledged"); err != nil {
		return domain.FeedbackFilter{}, err
	}
	if filter.Shipped, err = parseBoolParam(c, "shipped"); err != nil {
		return domain.FeedbackFilter{}, err
	}
	if filter.From, filter.To, err = parseDateRange(c); err != nil {
		return domain.FeedbackFilter{}, err
	}
	return filter, nil
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBoolParam(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean", name)
	}
	return &v, nil
}

func parseDateRange(c *gin.Context) (from, to *time.Time, err error) {
	if from, err = parseDateParam(c.Query("from"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDateParam(c.Query("to"), true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}

// parseDateParam accepts RFC3339 timestamps or plain dates. A plain date used
// as the upper bound covers the whole day, keeping the range inclusive.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	if endOfDay {
		ts = ts.Add(24*time.Hour - time.Nanosecond)
	}
	return &ts, nil
}
