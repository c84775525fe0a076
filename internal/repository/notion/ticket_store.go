package notion

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"supportdesk/internal/domain"
)

// Ticket database property names.
const (
	propID           = "ID"
	propDescription  = "Description"
	propStatus       = "Status"
	propSeverity     = "Severity"
	propContact      = "Contact"
	propProductTags  = "Product Tags"
	propCategoryTags = "Category Tags"
	propCreated      = "Created"
	propResolved     = "Resolved"
)

type TicketStore struct {
	client     *Client
	databaseID string

	// createMu serializes Create: ID allocation reads the current max over the
	// API, so concurrent creates from this process could mint the same ID.
	createMu sync.Mutex
}

func NewTicketStore(client *Client, databaseID string) *TicketStore {
	return &TicketStore{client: client, databaseID: databaseID}
}

// List fetches every page of the tickets database and filters in memory, the
// way the dashboard originally evaluated filters after a full fetch.
func (s *TicketStore) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	pages, err := s.client.queryAll(ctx, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	var tickets []domain.Ticket
	for _, p := range pages {
		if p.Archived {
			continue
		}
		t := ticketFromPage(p)
		if filter.Matches(t) {
			tickets = append(tickets, t)
		}
	}

	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID > tickets[j].ID
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func (s *TicketStore) Get(ctx context.Context, id int64) (domain.Ticket, error) {
	p, err := s.client.queryByNumber(ctx, s.databaseID, propID, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket %d: %w", id, err)
	}
	if p == nil || p.Archived {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return ticketFromPage(*p), nil
}

func (s *TicketStore) Create(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	id, err := s.client.nextID(ctx, s.databaseID, propID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("allocate ticket id: %w", err)
	}
	t.ID = id

	if err := s.client.createPage(ctx, s.databaseID, ticketProps(t)); err != nil {
		return domain.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}
	return t, nil
}

func (s *TicketStore) Update(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	p, err := s.client.queryByNumber(ctx, s.databaseID, propID, t.ID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("update ticket %d: %w", t.ID, err)
	}
	if p == nil || p.Archived {
		return domain.Ticket{}, domain.ErrNotFound
	}

	if err := s.client.updatePage(ctx, p.ID, ticketProps(t)); err != nil {
		return domain.Ticket{}, fmt.Errorf("update ticket %d: %w", t.ID, err)
	}
	return t, nil
}

func (s *TicketStore) Delete(ctx context.Context, id int64) error {
	p, err := s.client.queryByNumber(ctx, s.databaseID, propID, id)
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	if p == nil || p.Archived {
		return domain.ErrNotFound
	}
	if err := s.client.archivePage(ctx, p.ID); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	return nil
}

// Stats lists the database and rolls up the counts in memory; Notion has no
// server-side aggregation.
func (s *TicketStore) Stats(ctx context.Context) (domain.TicketStats, error) {
	tickets, err := s.List(ctx, domain.TicketFilter{})
	if err != nil {
		return domain.TicketStats{}, err
	}

	stats := domain.TicketStats{
		ByStatus:   make(map[string]int64),
		BySeverity: make(map[string]int64),
	}
	for _, t := range tickets {
		stats.Total++
		stats.ByStatus[string(t.Status)]++
		stats.BySeverity[string(t.Severity)]++
		switch {
		case t.Status == domain.StatusResolved:
			stats.Resolved++
		case !t.Status.Terminal():
			stats.Open++
		}
	}
	return stats, nil
}

func ticketFromPage(p page) domain.Ticket {
	t := domain.Ticket{
		ID:           p.number(propID),
		Status:       domain.Status(p.selectValue(propStatus)),
		Severity:     domain.Severity(p.selectValue(propSeverity)),
		Description:  p.text(propDescription),
		Contact:      p.text(propContact),
		ProductTags:  p.multiSelect(propProductTags),
		CategoryTags: p.multiSelect(propCategoryTags),
		ResolvedAt:   p.date(propResolved),
	}
	if created := p.date(propCreated); created != nil {
		t.CreatedAt = *created
	}
	return t
}

func ticketProps(t domain.Ticket) map[string]any {
	id := t.ID
	created := t.CreatedAt
	var createdPtr *time.Time
	if !created.IsZero() {
		createdPtr = &created
	}
	return map[string]any{
		propID:           numberProp(&id),
		propDescription:  titleProp(t.Description),
		propStatus:       selectProp(string(t.Status)),
		propSeverity:     selectProp(string(t.Severity)),
		propContact:      richTextProp(t.Contact),
		propProductTags:  multiSelectProp(t.ProductTags),
		propCategoryTags: multiSelectProp(t.CategoryTags),
		propCreated:      dateProp(createdPtr),
		propResolved:     dateProp(t.ResolvedAt),
	}
}
