package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"supportdesk/internal/domain"
	"supportdesk/internal/repository"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db, "sqlite3"))
	return db
}

func seedTickets(t *testing.T, repo *repository.TicketRepository, baseTime time.Time) []domain.Ticket {
	t.Helper()

	seeds := []domain.Ticket{
		{
			Status:      domain.StatusOpen,
			Severity:    domain.Sev1,
			Description: "Checkout fails with a 502 on payment submit",
			Contact:     "jamie@acme.example",
			ProductTags: []string{"checkout"},
			CreatedAt:   baseTime,
		},
		{
			Status:       domain.StatusInProgress,
			Severity:     domain.Sev3,
			Description:  "Search results missing recent items",
			Contact:      "ops@acme.example",
			CategoryTags: []string{"search", "indexing"},
			CreatedAt:    baseTime.Add(24 * time.Hour),
		},
		{
			Status:      domain.StatusResolved,
			Severity:    domain.Sev4,
			Description: "Typo on the billing page",
			Contact:     "casey@acme.example",
			ProductTags: []string{"billing"},
			CreatedAt:   baseTime.Add(48 * time.Hour),
		},
	}

	resolved := baseTime.Add(72 * time.Hour)
	seeds[2].ResolvedAt = &resolved

	ctx := context.Background()
	out := make([]domain.Ticket, 0, len(seeds))
	for _, s := range seeds {
		created, err := repo.Create(ctx, s)
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		out = append(out, created)
	}
	return out
}

func TestTicketRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewTicketRepository(db, "sqlite3")

	baseTime := time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC)
	seeded := seedTickets(t, repo, baseTime)

	t.Run("Get round trip", func(t *testing.T) {
		got, err := repo.Get(ctx, seeded[0].ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusOpen, got.Status)
		require.Equal(t, domain.Sev1, got.Severity)
		require.Equal(t, []string{"checkout"}, got.ProductTags)
		require.Nil(t, got.ResolvedAt)
	})

	t.Run("Get missing id", func(t *testing.T) {
		_, err := repo.Get(ctx, 99999)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("List unfiltered newest first", func(t *testing.T) {
		tickets, err := repo.List(ctx, domain.TicketFilter{})
		require.NoError(t, err)
		require.Len(t, tickets, 3)
		require.Equal(t, seeded[2].ID, tickets[0].ID)
	})

	t.Run("List by status set", func(t *testing.T) {
		tickets, err := repo.List(ctx, domain.TicketFilter{
			Statuses: []domain.Status{domain.StatusOpen, domain.StatusInProgress},
		})
		require.NoError(t, err)
		require.Len(t, tickets, 2)
	})

	t.Run("List by tag any-match", func(t *testing.T) {
		tickets, err := repo.List(ctx, domain.TicketFilter{Tags: []string{"indexing", "unknown"}})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		require.Equal(t, seeded[1].ID, tickets[0].ID)
	})

	t.Run("List by search substring", func(t *testing.T) {
		tickets, err := repo.List(ctx, domain.TicketFilter{Search: "BILLING"})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		require.Equal(t, seeded[2].ID, tickets[0].ID)
	})

	t.Run("List by inclusive date range", func(t *testing.T) {
		from := baseTime.Add(24 * time.Hour)
		to := baseTime.Add(48 * time.Hour)
		tickets, err := repo.List(ctx, domain.TicketFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, tickets, 2)
	})

	t.Run("Update overwrites row", func(t *testing.T) {
		tk := seeded[0]
		tk.Status = domain.StatusEscalated
		tk.CategoryTags = []string{"payments"}

		updated, err := repo.Update(ctx, tk)
		require.NoError(t, err)

		got, err := repo.Get(ctx, updated.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusEscalated, got.Status)
		require.Equal(t, []string{"payments"}, got.CategoryTags)
	})

	t.Run("Update missing id", func(t *testing.T) {
		_, err := repo.Update(ctx, domain.Ticket{ID: 99999, Status: domain.StatusOpen, Severity: domain.Sev5})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), stats.Total)
		require.Equal(t, int64(1), stats.Resolved)
		require.Equal(t, int64(2), stats.Open)
		require.Equal(t, int64(1), stats.BySeverity[string(domain.Sev1)])
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, seeded[1].ID))
		require.ErrorIs(t, repo.Delete(ctx, seeded[1].ID), domain.ErrNotFound)

		_, err := repo.Get(ctx, seeded[1].ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTicketRepository_LegacyTagValues(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewTicketRepository(db, "sqlite3")

	// Rows written by older dashboard builds hold a bare string or a
	// JSON-quoted string instead of a JSON array.
	_, err := db.Exec(`INSERT INTO tickets (status, severity, description, contact, product_tags, category_tags, created_at)
		VALUES ('Open', 'SEV-2', 'legacy row', '', 'checkout', '"billing"', ?)`,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	tickets, err := repo.List(ctx, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, []string{"checkout"}, tickets[0].ProductTags)
	require.Equal(t, []string{"billing"}, tickets[0].CategoryTags)
}
