//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supportdesk/internal/api"
	"supportdesk/internal/domain"
	"supportdesk/internal/repository"
	"supportdesk/internal/service"
	"supportdesk/tests/e2e/mocks"
)

type testStack struct {
	server *httptest.Server
	cache  *mocks.TrackingCache
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db, "sqlite3"))

	logger := zap.NewNop()
	ticketService := service.NewTicketService(repository.NewTicketRepository(db, "sqlite3"), logger)
	feedbackService := service.NewFeedbackService(repository.NewFeedbackRepository(db, "sqlite3"), logger)

	cache := mocks.NewTrackingCache()
	handlers := api.NewHandlers(ticketService, feedbackService, cache, logger, time.Minute)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers.RegisterRoutes(engine)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return &testStack{server: server, cache: cache}
}

func (s *testStack) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestE2E_TicketLifecycle(t *testing.T) {
	stack := newTestStack(t)

	var created domain.Ticket
	code := stack.do(t, "POST", "/api/v1/tickets", map[string]any{
		"description":   "Payment fails on checkout",
		"severity":      "SEV-2",
		"contact":       "jo@example.com",
		"product_tags":  []string{"checkout"},
		"category_tags": []string{"billing"},
	}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.Positive(t, created.ID)
	assert.Equal(t, domain.StatusNew, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.ResolvedAt)

	var fetched domain.Ticket
	code = stack.do(t, "GET", fmt.Sprintf("/api/v1/tickets/%d", created.ID), nil, &fetched)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, []string{"checkout"}, fetched.ProductTags)

	var resolved domain.Ticket
	code = stack.do(t, "PUT", fmt.Sprintf("/api/v1/tickets/%d", created.ID),
		map[string]any{"status": "Resolved"}, &resolved)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	var reopened domain.Ticket
	code = stack.do(t, "PUT", fmt.Sprintf("/api/v1/tickets/%d", created.ID),
		map[string]any{"status": "Reopened"}, &reopened)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, reopened.ResolvedAt)

	code = stack.do(t, "DELETE", fmt.Sprintf("/api/v1/tickets/%d", created.ID), nil, nil)
	require.Equal(t, http.StatusNoContent, code)

	code = stack.do(t, "GET", fmt.Sprintf("/api/v1/tickets/%d", created.ID), nil, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestE2E_TicketFiltering(t *testing.T) {
	stack := newTestStack(t)

	seed := []map[string]any{
		{"description": "Login page times out", "severity": "SEV-1", "product_tags": []string{"auth"}},
		{"description": "Billing export missing column", "severity": "SEV-3", "product_tags": []string{"billing"}},
		{"description": "Dark mode flickers", "severity": "SEV-4", "category_tags": []string{"UI"}},
	}
	for _, body := range seed {
		code := stack.do(t, "POST", "/api/v1/tickets", body, nil)
		require.Equal(t, http.StatusCreated, code)
	}

	var resolved domain.Ticket
	code := stack.do(t, "PUT", "/api/v1/tickets/2", map[string]any{"status": "Resolved"}, &resolved)
	require.Equal(t, http.StatusOK, code)

	t.Run("by status", func(t *testing.T) {
		var tickets []domain.Ticket
		code := stack.do(t, "GET", "/api/v1/tickets?status=Resolved", nil, &tickets)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, tickets, 1)
		assert.Equal(t, int64(2), tickets[0].ID)
	})

	t.Run("by severity set", func(t *testing.T) {
		var tickets []domain.Ticket
		code := stack.do(t, "GET", "/api/v1/tickets?severity=SEV-1,SEV-4", nil, &tickets)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, tickets, 2)
	})

	t.Run("by tag case-insensitive", func(t *testing.T) {
		var tickets []domain.Ticket
		code := stack.do(t, "GET", "/api/v1/tickets?tags=ui,auth", nil, &tickets)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, tickets, 2)
	})

	t.Run("substring search", func(t *testing.T) {
		var tickets []domain.Ticket
		code := stack.do(t, "GET", "/api/v1/tickets?q=BILLING", nil, &tickets)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, tickets, 1)
		assert.Equal(t, int64(2), tickets[0].ID)
	})

	t.Run("combined filters are conjunctive", func(t *testing.T) {
		var tickets []domain.Ticket
		code := stack.do(t, "GET", "/api/v1/tickets?severity=SEV-1&q=billing", nil, &tickets)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, tickets)
	})
}

func TestE2E_FeedbackShippedFlow(t *testing.T) {
	stack := newTestStack(t)

	var created domain.Feedback
	code := stack.do(t, "POST", "/api/v1/feedback", map[string]any{
		"platform":    "Discord",
		"description": "Please add keyboard shortcuts",
		"product":     "web-app",
	}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.Positive(t, created.ID)
	assert.Nil(t, created.Shipped)
	assert.Nil(t, created.ShippedDate)

	var shipped domain.Feedback
	code = stack.do(t, "PUT", fmt.Sprintf("/api/v1/feedback/%d", created.ID),
		map[string]any{"shipped": true}, &shipped)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, shipped.Shipped)
	assert.True(t, *shipped.Shipped)
	require.NotNil(t, shipped.ShippedDate)
	firstShipDate := *shipped.ShippedDate

	// Flipping shipped true again must not move the original date.
	var again domain.Feedback
	code = stack.do(t, "PUT", fmt.Sprintf("/api/v1/feedback/%d", created.ID),
		map[string]any{"shipped": true, "acknowledged": true}, &again)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, again.ShippedDate)
	assert.True(t, again.ShippedDate.Equal(firstShipDate))

	var unshipped domain.Feedback
	code = stack.do(t, "PUT", fmt.Sprintf("/api/v1/feedback/%d", created.ID),
		map[string]any{"shipped": false}, &unshipped)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, unshipped.ShippedDate)

	t.Run("tri-state filter", func(t *testing.T) {
		var items []domain.Feedback
		code := stack.do(t, "GET", "/api/v1/feedback?shipped=true", nil, &items)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, items)

		code = stack.do(t, "GET", "/api/v1/feedback?acknowledged=true", nil, &items)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, items, 1)
	})
}

func TestE2E_StatsAndCaching(t *testing.T) {
	stack := newTestStack(t)

	for i := 0; i < 3; i++ {
		code := stack.do(t, "POST", "/api/v1/tickets",
			map[string]any{"description": fmt.Sprintf("issue %d", i)}, nil)
		require.Equal(t, http.StatusCreated, code)
	}
	var resolved domain.Ticket
	code := stack.do(t, "PUT", "/api/v1/tickets/1", map[string]any{"status": "Resolved"}, &resolved)
	require.Equal(t, http.StatusOK, code)

	var stats domain.TicketStats
	code = stack.do(t, "GET", "/api/v1/tickets/stats", nil, &stats)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Resolved)
	assert.Equal(t, int64(2), stats.ByStatus["New"])

	var cachedStats domain.TicketStats
	code = stack.do(t, "GET", "/api/v1/tickets/stats", nil, &cachedStats)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, stats.Total, cachedStats.Total)
	assert.Positive(t, stack.cache.GetCalls)

	// A mutation invalidates the cached entry, so reads converge on the new
	// totals. Background refresh may lag a beat, hence the poll.
	deletes := stack.cache.DeleteCalls
	code = stack.do(t, "DELETE", "/api/v1/tickets/2", nil, nil)
	require.Equal(t, http.StatusNoContent, code)
	assert.Greater(t, stack.cache.DeleteCalls, deletes)

	require.Eventually(t, func() bool {
		resp, err := stack.server.Client().Get(stack.server.URL + "/api/v1/tickets/stats")
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		defer resp.Body.Close()

		var fresh domain.TicketStats
		if err := json.NewDecoder(resp.Body).Decode(&fresh); err != nil {
			return false
		}
		return fresh.Total == 2
	}, 5*time.Second, 100*time.Millisecond)
}

func TestE2E_ValidationAndErrors(t *testing.T) {
	stack := newTestStack(t)

	t.Run("missing description rejected", func(t *testing.T) {
		code := stack.do(t, "POST", "/api/v1/tickets", map[string]any{"severity": "SEV-2"}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown severity rejected", func(t *testing.T) {
		code := stack.do(t, "POST", "/api/v1/tickets",
			map[string]any{"description": "x", "severity": "SEV-9"}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown feedback platform rejected", func(t *testing.T) {
		code := stack.do(t, "POST", "/api/v1/feedback",
			map[string]any{"platform": "Carrier Pigeon", "description": "x"}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("non-numeric id rejected", func(t *testing.T) {
		code := stack.do(t, "GET", "/api/v1/tickets/not-a-number", nil, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("update of missing record is 404", func(t *testing.T) {
		code := stack.do(t, "PUT", "/api/v1/tickets/9999", map[string]any{"status": "Open"}, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("inverted date range rejected", func(t *testing.T) {
		code := stack.do(t, "GET", "/api/v1/tickets?from=2025-02-01&to=2025-01-01", nil, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
