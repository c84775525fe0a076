package api

import (
	"context"
	"time"

	"supportdesk/internal/domain"
	"supportdesk/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type TicketService interface {
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	Get(ctx context.Context, id int64) (domain.Ticket, error)
	Create(ctx context.Context, in service.CreateTicketInput) (domain.Ticket, error)
	Update(ctx context.Context, id int64, in service.UpdateTicketInput) (domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.TicketStats, error)
}

type FeedbackService interface {
	List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	Get(ctx context.Context, id int64) (domain.Feedback, error)
	Create(ctx context.Context, in service.CreateFeedbackInput) (domain.Feedback, error)
	Update(ctx context.Context, id int64, in service.UpdateFeedbackInput) (domain.Feedback, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.FeedbackStats, error)
}
