package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"supportdesk/internal/domain"
	"supportdesk/internal/service/mocks"
)

func strPtr(s string) *string { return &s }

// TestNewTicketService tests the constructor
func TestNewTicketService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		mockStore := &mocks.MockTicketStore{}
		logger := zap.NewNop()

		svc := NewTicketService(mockStore, logger)

		assert.NotNil(t, svc)
		assert.Equal(t, mockStore, svc.storage)
		assert.Equal(t, logger, svc.logger)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewTicketService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewTicketService(&mocks.MockTicketStore{}, nil)

		assert.NotNil(t, svc)
		assert.NotNil(t, svc.logger)
	})
}

func TestTicketCreate(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		var stored domain.Ticket
		mockStore := &mocks.MockTicketStore{
			CreateFunc: func(ctx context.Context, tk domain.Ticket) (domain.Ticket, error) {
				stored = tk
				tk.ID = 7
				return tk, nil
			},
		}

		svc := NewTicketService(mockStore, logger)
		created, err := svc.Create(ctx, CreateTicketInput{Description: "Checkout broken"})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		assert.Equal(t, domain.StatusNew, stored.Status)
		assert.Equal(t, domain.Sev3, stored.Severity)
		assert.False(t, stored.CreatedAt.IsZero())
	})

	t.Run("missing description rejected", func(t *testing.T) {
		svc := NewTicketService(&mocks.MockTicketStore{}, logger)

		_, err := svc.Create(ctx, CreateTicketInput{Description: "   "})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := NewTicketService(&mocks.MockTicketStore{}, logger)

		_, err := svc.Create(ctx, CreateTicketInput{Description: "x", Status: "Abandoned"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown severity rejected", func(t *testing.T) {
		svc := NewTicketService(&mocks.MockTicketStore{}, logger)

		_, err := svc.Create(ctx, CreateTicketInput{Description: "x", Severity: "SEV-9"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("resolved ticket gets timestamp", func(t *testing.T) {
		var stored domain.Ticket
		mockStore := &mocks.MockTicketStore{
			CreateFunc: func(ctx context.Context, tk domain.Ticket) (domain.Ticket, error) {
				stored = tk
				return tk, nil
			},
		}

		svc := NewTicketService(mockStore, logger)
		_, err := svc.Create(ctx, CreateTicketInput{Description: "x", Status: string(domain.StatusResolved)})

		assert.NoError(t, err)
		assert.NotNil(t, stored.ResolvedAt)
	})

	t.Run("tags normalized", func(t *testing.T) {
		var stored domain.Ticket
		mockStore := &mocks.MockTicketStore{
			CreateFunc: func(ctx context.Context, tk domain.Ticket) (domain.Ticket, error) {
				stored = tk
				return tk, nil
			},
		}

		svc := NewTicketService(mockStore, logger)
		_, err := svc.Create(ctx, CreateTicketInput{
			Description: "x",
			ProductTags: []string{" checkout ", "", "billing"},
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"checkout", "billing"}, stored.ProductTags)
	})

	t.Run("storage failure wrapped", func(t *testing.T) {
		mockStore := &mocks.MockTicketStore{
			CreateFunc: func(ctx context.Context, tk domain.Ticket) (domain.Ticket, error) {
				return domain.Ticket{}, errors.New("disk full")
			},
		}

		svc := NewTicketService(mockStore, logger)
		_, err := svc.Create(ctx, CreateTicketInput{Description: "x"})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestTicketList(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("deadline exceeded passes through unwrapped", func(t *testing.T) {
		mockStore := &mocks.MockTicketStore{
			ListFunc: func(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
				return nil, context.DeadlineExceeded
			},
		}

		svc := NewTicketService(mockStore, logger)
		_, err := svc.List(ctx, domain.TicketFilter{})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, errors.Is(err, ErrStorageFailure))
	})

	t.Run("other errors wrapped as storage failure", func(t *testing.T) {
		mockStore := &mocks.MockTicketStore{
			ListFunc: func(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
				return nil, errors.New("connection reset")
			},
		}

		svc := NewTicketService(mockStore, logger)
		_, err := svc.List(ctx, domain.TicketFilter{})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestTicketUpdate(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	existing := domain.Ticket{
		ID:          3,
		Status:      domain.StatusOpen,
		Severity:    domain.Sev2,
		Description: "Payment declined for all cards",
		Contact:     "pat@acme.example",
	}

	newStore := func(updated *domain.Ticket) *mocks.MockTicketStore {
		return &mocks.MockTicketStore{
			GetFunc: func(ctx context.Context, id int64) (domain.Ticket, error) {
				if id != existing.ID {
					return domain.Ticket{}, domain.ErrNotFound
				}
				return existing, nil
			},
			UpdateFunc: func(ctx context.Context, tk domain.Ticket) (domain.Ticket, error) {
				*updated = tk
				return tk, nil
			},
		}
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		var updated domain.Ticket
		svc := NewTicketService(newStore(&updated), logger)

		got, err := svc.Update(ctx, 3, UpdateTicketInput{Severity: strPtr(string(domain.Sev1))})

		assert.NoError(t, err)
		assert.Equal(t, domain.Sev1, got.Severity)
		assert.Equal(t, existing.Description, updated.Description)
		assert.Equal(t, existing.Contact, updated.Contact)
	})

	t.Run("resolving sets timestamp once", func(t *testing.T) {
		var updated domain.Ticket
		svc := NewTicketService(newStore(&updated), logger)

		got, err := svc.Update(ctx, 3, UpdateTicketInput{Status: strPtr(string(domain.StatusResolved))})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusResolved, got.Status)
		assert.NotNil(t, updated.ResolvedAt)
	})

	t.Run("reopening clears timestamp", func(t *testing.T) {
		resolved := existing
		resolved.Status = domain.StatusResolved
		now := resolved.CreatedAt
		resolved.ResolvedAt = &now

		var updated domain.Ticket
		store := newStore(&updated)
		store.GetFunc = func(ctx context.Context, id int64) (domain.Ticket, error) {
			return resolved, nil
		}

		svc := NewTicketService(store, logger)
		got, err := svc.Update(ctx, 3, UpdateTicketInput{Status: strPtr(string(domain.StatusReopened))})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusReopened, got.Status)
		assert.Nil(t, updated.ResolvedAt)
	})

	t.Run("missing ticket", func(t *testing.T) {
		var updated domain.Ticket
		svc := NewTicketService(newStore(&updated), logger)

		_, err := svc.Update(ctx, 404, UpdateTicketInput{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTicketDelete(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("not found passes through", func(t *testing.T) {
		mockStore := &mocks.MockTicketStore{
			DeleteFunc: func(ctx context.Context, id int64) error {
				return domain.ErrNotFound
			},
		}

		svc := NewTicketService(mockStore, logger)
		assert.ErrorIs(t, svc.Delete(ctx, 1), domain.ErrNotFound)
	})

	t.Run("storage failure wrapped", func(t *testing.T) {
		mockStore := &mocks.MockTicketStore{
			DeleteFunc: func(ctx context.Context, id int64) error {
				return errors.New("connection reset")
			},
		}

		svc := NewTicketService(mockStore, logger)
		assert.ErrorIs(t, svc.Delete(ctx, 1), ErrStorageFailure)
	})
}
