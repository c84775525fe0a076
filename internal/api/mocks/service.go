package mocks

import (
	"context"
	"errors"

	"supportdesk/internal/domain"
	"supportdesk/internal/service"
)

// MockTicketService is a mock implementation of the ticket service interface
// for testing the handler layer.
type MockTicketService struct {
	ListFunc   func(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	GetFunc    func(ctx context.Context, id int64) (domain.Ticket, error)
	CreateFunc func(ctx context.Context, in service.CreateTicketInput) (domain.Ticket, error)
	UpdateFunc func(ctx context.Context, id int64, in service.UpdateTicketInput) (domain.Ticket, error)
	DeleteFunc func(ctx context.Context, id int64) error
	StatsFunc  func(ctx context.Context) (domain.TicketStats, error)
}

func (m *MockTicketService) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, errors.New("ListFunc not implemented")
}

func (m *MockTicketService) Get(ctx context.Context, id int64) (domain.Ticket, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return domain.Ticket{}, errors.New("GetFunc not implemented")
}

func (m *MockTicketService) Create(ctx context.Context, in service.CreateTicketInput) (domain.Ticket, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return domain.Ticket{}, errors.New("CreateFunc not implemented")
}

func (m *MockTicketService) Update(ctx context.Context, id int64, in service.UpdateTicketInput) (domain.Ticket, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return domain.Ticket{}, errors.New("UpdateFunc not implemented")
}

func (m *MockTicketService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("DeleteFunc not implemented")
}

func (m *MockTicketService) Stats(ctx context.Context) (domain.TicketStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.TicketStats{}, errors.New("StatsFunc not implemented")
}

// MockFeedbackService is a mock implementation of the feedback service
// interface for testing the handler layer.
type MockFeedbackService struct {
	ListFunc   func(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	GetFunc    func(ctx context.Context, id int64) (domain.Feedback, error)
	CreateFunc func(ctx context.Context, in service.CreateFeedbackInput) (domain.Feedback, error)
	UpdateFunc func(ctx context.Context, id int64, in service.UpdateFeedbackInput) (domain.Feedback, error)
	DeleteFunc func(ctx context.Context, id int64) error
	StatsFunc  func(ctx context.Context) (domain.FeedbackStats, error)
}

func (m *MockFeedbackService) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, errors.New("ListFunc not implemented")
}

func (m *MockFeedbackService) Get(ctx context.Context, id int64) (domain.Feedback, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return domain.Feedback{}, errors.New("GetFunc not implemented")
}

func (m *MockFeedbackService) Create(ctx context.Context, in service.CreateFeedbackInput) (domain.Feedback, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return domain.Feedback{}, errors.New("CreateFunc not implemented")
}

func (m *MockFeedbackService) Update(ctx context.Context, id int64, in service.UpdateFeedbackInput) (domain.Feedback, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return domain.Feedback{}, errors.New("UpdateFunc not implemented")
}

func (m *MockFeedbackService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("DeleteFunc not implemented")
}

func (m *MockFeedbackService) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.FeedbackStats{}, errors.New("StatsFunc not implemented")
}
