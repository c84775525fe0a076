package mocks

import (
	"context"
	"errors"

	"supportdesk/internal/domain"
)

// MockTicketStore is a mock implementation of the TicketStore interface
// for testing the service layer.
type MockTicketStore struct {
	ListFunc   func(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	GetFunc    func(ctx context.Context, id int64) (domain.Ticket, error)
	CreateFunc func(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	UpdateFunc func(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	DeleteFunc func(ctx context.Context, id int64) error
	StatsFunc  func(ctx context.Context) (domain.TicketStats, error)
}

func (m *MockTicketStore) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, errors.New("ListFunc not implemented")
}

func (m *MockTicketStore) Get(ctx context.Context, id int64) (domain.Ticket, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return domain.Ticket{}, errors.New("GetFunc not implemented")
}

func (m *MockTicketStore) Create(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return domain.Ticket{}, errors.New("CreateFunc not implemented")
}

func (m *MockTicketStore) Update(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return domain.Ticket{}, errors.New("UpdateFunc not implemented")
}

func (m *MockTicketStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("DeleteFunc not implemented")
}

func (m *MockTicketStore) Stats(ctx context.Context) (domain.TicketStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.TicketStats{}, errors.New("StatsFunc not implemented")
}

// MockFeedbackStore is a mock implementation of the FeedbackStore interface
// for testing the service layer.
type MockFeedbackStore struct {
	ListFunc   func(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	GetFunc    func(ctx context.Context, id int64) (domain.Feedback, error)
	CreateFunc func(ctx context.Context, fb domain.Feedback) (domain.Feedback, error)
	UpdateFunc func(ctx context.Context, fb domain.Feedback) (domain.Feedback, error)
	DeleteFunc func(ctx context.Context, id int64) error
	StatsFunc  func(ctx context.Context) (domain.FeedbackStats, error)
}

func (m *MockFeedbackStore) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, errors.New("ListFunc not implemented")
}

func (m *MockFeedbackStore) Get(ctx context.Context, id int64) (domain.Feedback, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return domain.Feedback{}, errors.New("GetFunc not implemented")
}

func (m *MockFeedbackStore) Create(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, fb)
	}
	return domain.Feedback{}, errors.New("CreateFunc not implemented")
}

func (m *MockFeedbackStore) Update(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, fb)
	}
	return domain.Feedback{}, errors.New("UpdateFunc not implemented")
}

func (m *MockFeedbackStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("DeleteFunc not implemented")
}

func (m *MockFeedbackStore) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.FeedbackStats{}, errors.New("StatsFunc not implemented")
}
