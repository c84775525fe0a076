package service

import (
	"context"

	"supportdesk/internal/domain"
)

// TicketStore defines the storage operations the ticket service needs. Both
// the SQL repository and the Notion adapter satisfy it.
type TicketStore interface {
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	Get(ctx context.Context, id int64) (domain.Ticket, error)
	Create(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	Update(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.TicketStats, error)
}

// FeedbackStore defines the storage operations the feedback service needs.
type FeedbackStore interface {
	List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	Get(ctx context.Context, id int64) (domain.Feedback, error)
	Create(ctx context.Context, fb domain.Feedback) (domain.Feedback, error)
	Update(ctx context.Context, fb domain.Feedback) (domain.Feedback, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.FeedbackStats, error)
}
