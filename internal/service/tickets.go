package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"supportdesk/internal/domain"
)

const dbTimeout = 5 * time.Second

var (
	ErrValidation     = errors.New("invalid input")
	ErrStorageFailure = errors.New("storage failure")
)

// storageError wraps a store error as a storage failure. Context errors pass
// through unwrapped so timeouts stay detectable with errors.Is further up.
func storageError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return storageError(err)
}

// TicketService handles ticket CRUD and enforces the ticket invariants that
// the legacy dashboard re-implemented at every call site.
type TicketService struct {
	storage TicketStore
	logger  *zap.Logger
}

// NewTicketService creates a new TicketService instance.
func NewTicketService(storage TicketStore, logger *zap.Logger) *TicketService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &TicketService{
		storage: storage,
		logger:  logger,
	}
}

func (s *TicketService) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tickets, err := s.storage.List(dbCtx, filter)
	if err != nil {
		return nil, storageError(err)
	}
	return tickets, nil
}

func (s *TicketService) Get(ctx context.Context, id int64) (domain.Ticket, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	t, err := s.storage.Get(dbCtx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Ticket{}, err
		}
		return domain.Ticket{}, storageError(err)
	}
	return t, nil
}

// Create validates the input and stores a new ticket. IDs are assigned by the
// store; client-chosen identifiers are not accepted.
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (domain.Ticket, error) {
	t := domain.Ticket{
		Status:       domain.Status(in.Status),
		Severity:     domain.Severity(in.Severity),
		Description:  strings.TrimSpace(in.Description),
		Contact:      strings.TrimSpace(in.Contact),
		ProductTags:  normalizeTags(in.ProductTags),
		CategoryTags: normalizeTags(in.CategoryTags),
		CreatedAt:    time.Now().UTC(),
	}
	if t.Status == "" {
		t.Status = domain.StatusNew
	}
	if t.Severity == "" {
		t.Severity = domain.Sev3
	}

	if err := validateTicket(t); err != nil {
		return domain.Ticket{}, err
	}
	applyStatusTransition(&t, time.Now().UTC())

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	created, err := s.storage.Create(dbCtx, t)
	if err != nil {
		return domain.Ticket{}, storageError(err)
	}

	s.logger.Info("ticket created",
		zap.Int64("id", created.ID),
		zap.String("status", string(created.Status)),
		zap.String("severity", string(created.Severity)))
	return created, nil
}

// Update loads the stored ticket, overlays the provided fields and writes the
// record back in full.
func (s *TicketService) Update(ctx context.Context, id int64, in UpdateTicketInput) (domain.Ticket, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}

	if in.Status != nil {
		t.Status = domain.Status(*in.Status)
	}
	if in.Severity != nil {
		t.Severity = domain.Severity(*in.Severity)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Contact != nil {
		t.Contact = strings.TrimSpace(*in.Contact)
	}
	if in.ProductTags != nil {
		t.ProductTags = normalizeTags(*in.ProductTags)
	}
	if in.CategoryTags != nil {
		t.CategoryTags = normalizeTags(*in.CategoryTags)
	}

	if err := validateTicket(t); err != nil {
		return domain.Ticket{}, err
	}
	applyStatusTransition(&t, time.Now().UTC())

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	updated, err := s.storage.Update(dbCtx, t)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Ticket{}, err
		}
		return domain.Ticket{}, storageError(err)
	}

	s.logger.Info("ticket updated",
		zap.Int64("id", updated.ID),
		zap.String("status", string(updated.Status)))
	return updated, nil
}

func (s *TicketService) Delete(ctx context.Context, id int64) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.Delete(dbCtx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return storageError(err)
	}

	s.logger.Info("ticket deleted", zap.Int64("id", id))
	return nil
}

func (s *TicketService) Stats(ctx context.Context) (domain.TicketStats, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	stats, err := s.storage.Stats(dbCtx)
	if err != nil {
		return domain.TicketStats{}, storageError(err)
	}
	return stats, nil
}

func validateTicket(t domain.Ticket) error {
	if t.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, t.Status)
	}
	if !t.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrValidation, t.Severity)
	}
	return nil
}

// applyStatusTransition keeps the resolution timestamp consistent with the
// status: set exactly when the ticket is Resolved, cleared otherwise.
func applyStatusTransition(t *domain.Ticket, now time.Time) {
	if t.Status == domain.StatusResolved {
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
		return
	}
	t.ResolvedAt = nil
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
