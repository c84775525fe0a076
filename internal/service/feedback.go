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

// FeedbackService handles feedback CRUD and owns the shipped-date invariant.
type FeedbackService struct {
	storage FeedbackStore
	logger  *zap.Logger
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(storage FeedbackStore, logger *zap.Logger) *FeedbackService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &FeedbackService{
		storage: storage,
		logger:  logger,
	}
}

func (s *FeedbackService) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	items, err := s.storage.List(dbCtx, filter)
	if err != nil {
		return nil, storageError(err)
	}
	return items, nil
}

func (s *FeedbackService) Get(ctx context.Context, id int64) (domain.Feedback, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	fb, err := s.storage.Get(dbCtx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Feedback{}, err
		}
		return domain.Feedback{}, storageError(err)
	}
	return fb, nil
}

func (s *FeedbackService) Create(ctx context.Context, in CreateFeedbackInput) (domain.Feedback, error) {
	fb := domain.Feedback{
		TicketID:     in.TicketID,
		Platform:     domain.Platform(in.Platform),
		Product:      strings.TrimSpace(in.Product),
		Description:  strings.TrimSpace(in.Description),
		Acknowledged: in.Acknowledged,
		Shipped:      in.Shipped,
		ShippedDate:  in.ShippedDate,
		CreatedAt:    time.Now().UTC(),
	}

	if err := validateFeedback(fb); err != nil {
		return domain.Feedback{}, err
	}
	applyShippedTransition(&fb, time.Now().UTC())

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	created, err := s.storage.Create(dbCtx, fb)
	if err != nil {
		return domain.Feedback{}, storageError(err)
	}

	s.logger.Info("feedback created",
		zap.Int64("id", created.ID),
		zap.String("platform", string(created.Platform)),
		zap.String("product", created.Product))
	return created, nil
}

// Update loads the stored record, overlays the provided fields and writes it
// back in full.
func (s *FeedbackService) Update(ctx context.Context, id int64, in UpdateFeedbackInput) (domain.Feedback, error) {
	fb, err := s.Get(ctx, id)
	if err != nil {
		return domain.Feedback{}, err
	}

	if in.TicketID != nil {
		fb.TicketID = in.TicketID
	}
	if in.Platform != nil {
		fb.Platform = domain.Platform(*in.Platform)
	}
	if in.Product != nil {
		fb.Product = strings.TrimSpace(*in.Product)
	}
	if in.Description != nil {
		fb.Description = strings.TrimSpace(*in.Description)
	}
	if in.Acknowledged != nil {
		fb.Acknowledged = in.Acknowledged
	}
	if in.Shipped != nil {
		fb.Shipped = in.Shipped
	}
	if in.ShippedDate != nil {
		fb.ShippedDate = in.ShippedDate
	}

	if err := validateFeedback(fb); err != nil {
		return domain.Feedback{}, err
	}
	applyShippedTransition(&fb, time.Now().UTC())

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	updated, err := s.storage.Update(dbCtx, fb)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Feedback{}, err
		}
		return domain.Feedback{}, storageError(err)
	}

	s.logger.Info("feedback updated", zap.Int64("id", updated.ID))
	return updated, nil
}

func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.Delete(dbCtx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return storageError(err)
	}

	s.logger.Info("feedback deleted", zap.Int64("id", id))
	return nil
}

func (s *FeedbackService) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	stats, err := s.storage.Stats(dbCtx)
	if err != nil {
		return domain.FeedbackStats{}, storageError(err)
	}
	return stats, nil
}

func validateFeedback(fb domain.Feedback) error {
	if fb.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !fb.Platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", ErrValidation, fb.Platform)
	}
	return nil
}

// applyShippedTransition keeps the shipped date consistent with the shipped
// flag: auto-populated when shipped flips true, cleared when it is false or
// undecided.
func applyShippedTransition(fb *domain.Feedback, now time.Time) {
	if fb.Shipped != nil && *fb.Shipped {
		if fb.ShippedDate == nil {
			fb.ShippedDate = &now
		}
		return
	}
	fb.ShippedDate = nil
}
