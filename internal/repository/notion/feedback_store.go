package notion

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"supportdesk/internal/domain"
)

// Feedback database property names. Tri-state booleans map to a Yes/No select
// so "not decided yet" can be represented as an unset property.
const (
	propTicketID     = "Ticket ID"
	propPlatform     = "Platform"
	propProduct      = "Product"
	propAcknowledged = "Acknowledged"
	propShipped      = "Shipped"
	propShippedDate  = "Shipped Date"
)

type FeedbackStore struct {
	client     *Client
	databaseID string

	// createMu serializes Create, same reasoning as TicketStore.
	createMu sync.Mutex
}

func NewFeedbackStore(client *Client, databaseID string) *FeedbackStore {
	return &FeedbackStore{client: client, databaseID: databaseID}
}

// List fetches every page of the feedback database and filters in memory.
func (s *FeedbackStore) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	pages, err := s.client.queryAll(ctx, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	var items []domain.Feedback
	for _, p := range pages {
		if p.Archived {
			continue
		}
		fb := feedbackFromPage(p)
		if filter.Matches(fb) {
			items = append(items, fb)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *FeedbackStore) Get(ctx context.Context, id int64) (domain.Feedback, error) {
	p, err := s.client.queryByNumber(ctx, s.databaseID, propID, id)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("get feedback %d: %w", id, err)
	}
	if p == nil || p.Archived {
		return domain.Feedback{}, domain.ErrNotFound
	}
	return feedbackFromPage(*p), nil
}

func (s *FeedbackStore) Create(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	id, err := s.client.nextID(ctx, s.databaseID, propID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("allocate feedback id: %w", err)
	}
	fb.ID = id

	if err := s.client.createPage(ctx, s.databaseID, feedbackProps(fb)); err != nil {
		return domain.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

func (s *FeedbackStore) Update(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	p, err := s.client.queryByNumber(ctx, s.databaseID, propID, fb.ID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("update feedback %d: %w", fb.ID, err)
	}
	if p == nil || p.Archived {
		return domain.Feedback{}, domain.ErrNotFound
	}

	if err := s.client.updatePage(ctx, p.ID, feedbackProps(fb)); err != nil {
		return domain.Feedback{}, fmt.Errorf("update feedback %d: %w", fb.ID, err)
	}
	return fb, nil
}

func (s *FeedbackStore) Delete(ctx context.Context, id int64) error {
	p, err := s.client.queryByNumber(ctx, s.databaseID, propID, id)
	if err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	if p == nil || p.Archived {
		return domain.ErrNotFound
	}
	if err := s.client.archivePage(ctx, p.ID); err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	return nil
}

// Stats lists the database and rolls up the counts in memory.
func (s *FeedbackStore) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	items, err := s.List(ctx, domain.FeedbackFilter{})
	if err != nil {
		return domain.FeedbackStats{}, err
	}

	stats := domain.FeedbackStats{
		ByPlatform: make(map[string]int64),
	}
	for _, fb := range items {
		stats.Total++
		stats.ByPlatform[string(fb.Platform)]++
		if fb.Acknowledged != nil && *fb.Acknowledged {
			stats.Acknowledged++
		}
		if fb.Shipped != nil && *fb.Shipped {
			stats.Shipped++
		}
	}
	return stats, nil
}

func feedbackFromPage(p page) domain.Feedback {
	fb := domain.Feedback{
		ID:           p.number(propID),
		Platform:     domain.Platform(p.selectValue(propPlatform)),
		Product:      p.text(propProduct),
		Description:  p.text(propDescription),
		Acknowledged: triStateFromSelect(p.selectValue(propAcknowledged)),
		Shipped:      triStateFromSelect(p.selectValue(propShipped)),
		ShippedDate:  p.date(propShippedDate),
	}
	if ref := p.number(propTicketID); ref != 0 {
		fb.TicketID = &ref
	}
	if created := p.date(propCreated); created != nil {
		fb.CreatedAt = *created
	}
	return fb
}

func feedbackProps(fb domain.Feedback) map[string]any {
	id := fb.ID
	created := fb.CreatedAt
	var createdPtr *time.Time
	if !created.IsZero() {
		createdPtr = &created
	}
	return map[string]any{
		propID:           numberProp(&id),
		propTicketID:     numberProp(fb.TicketID),
		propPlatform:     selectProp(string(fb.Platform)),
		propProduct:      richTextProp(fb.Product),
		propDescription:  titleProp(fb.Description),
		propAcknowledged: selectProp(triStateToSelect(fb.Acknowledged)),
		propShipped:      selectProp(triStateToSelect(fb.Shipped)),
		propShippedDate:  dateProp(fb.ShippedDate),
		propCreated:      dateProp(createdPtr),
	}
}

func triStateFromSelect(name string) *bool {
	switch name {
	case "Yes":
		v := true
		return &v
	case "No":
		v := false
		return &v
	}
	return nil
}

func triStateToSelect(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "Yes"
	}
	return "No"
}
