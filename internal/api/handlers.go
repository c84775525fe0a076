package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"supportdesk/internal/domain"
	"supportdesk/internal/service"
)

const defaultCacheDuration = 10 * time.Minute

const (
	cacheKeyTicketStats   = "api:ticket_stats"
	cacheKeyFeedbackStats = "api:feedback_stats"
)

type Handlers struct {
	tickets  TicketService
	feedback FeedbackService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

// NewHandlers initializes the REST handlers.
func NewHandlers(tickets TicketService, feedback FeedbackService, cache Cacher, logger *zap.Logger, ttl time.Duration) *Handlers {
	if tickets == nil || feedback == nil {
		panic("nil service provided to NewHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handlers{
		tickets:  tickets,
		feedback: feedback,
		cache:    cache,
		logger:   logger.Named("api"),
		cacheTTL: ttl,
	}
}

// RegisterRoutes mounts the v1 API on the given router.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")

	tickets := v1.Group("/tickets")
	tickets.GET("", h.listTickets)
	tickets.POST("", h.createTicket)
	tickets.GET("/stats", h.ticketStats)
	tickets.GET("/:id", h.getTicket)
	tickets.PUT("/:id", h.updateTicket)
	tickets.DELETE("/:id", h.deleteTicket)

	feedback := v1.Group("/feedback")
	feedback.GET("", h.listFeedback)
	feedback.POST("", h.createFeedback)
	feedback.GET("/stats", h.feedbackStats)
	feedback.GET("/:id", h.getFeedback)
	feedback.PUT("/:id", h.updateFeedback)
	feedback.DELETE("/:id", h.deleteFeedback)
}

// handleError maps service errors onto HTTP statuses with a uniform body.
func (h *Handlers) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("request timeout", zap.String("op", op))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	case errors.Is(err, domain.ErrNotFound):
		h.logger.Info("record not found", zap.String("op", op))
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, service.ErrValidation):
		h.logger.Info("validation failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": op + " failed"})
	}
}

// idParam parses the :id path segment. Identifiers are numeric; anything else
// is rejected outright rather than hashed into a surrogate.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) listTickets(c *gin.Context) {
	filter, err := parseTicketFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tickets, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, "listTickets", err)
		return
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *Handlers) getTicket(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	t, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "getTicket", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handlers) createTicket(c *gin.Context) {
	var in service.CreateTicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.tickets.Create(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, "createTicket", err)
		return
	}

	h.invalidate(c.Request.Context(), cacheKeyTicketStats)
	c.JSON(http.StatusCreated, t)
}

func (h *Handlers) updateTicket(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in service.UpdateTicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.tickets.Update(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, "updateTicket", err)
		return
	}

	h.invalidate(c.Request.Context(), cacheKeyTicketStats)
	c.JSON(http.StatusOK, t)
}

func (h *Handlers) deleteTicket(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.tickets.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, "deleteTicket", err)
		return
	}

	h.invalidate(c.Request.Context(), cacheKeyTicketStats)
	c.Status(http.StatusNoContent)
}

func (h *Handlers) ticketStats(c *gin.Context) {
	stats, err := FindAndCache(c.Request.Context(), h.cache, &h.sfGroup, cacheKeyTicketStats, h.cacheTTL, h.logger,
		func(fetchCtx context.Context) (domain.TicketStats, error) {
			return h.tickets.Stats(fetchCtx)
		})
	if err != nil {
		h.handleError(c, "ticketStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handlers) listFeedback(c *gin.Context) {
	filter, err := parseFeedbackFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.feedback.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, "listFeedback", err)
		return
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handlers) getFeedback(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	fb, err := h.feedback.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "getFeedback", err)
		return
	}
	c.JSON(http.StatusOK, fb)
}

func (h *Handlers) createFeedback(c *gin.Context) {
	var in service.CreateFeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fb, err := h.feedback.Create(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, "createFeedback", err)
		return
	}

	h.invalidate(c.Request.Context(), cacheKeyFeedbackStats)
	c.JSON(http.StatusCreated, fb)
}

func (h *Handlers) updateFeedback(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in service.UpdateFeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fb, err := h.feedback.Update(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, "updateFeedback", err)
		return
	}

	h.invalidate(c.Request.Context(), cacheKeyFeedbackStats)
	c.JSON(http.StatusOK, fb)
}

func (h *Handlers) deleteFeedback(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.feedback.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, "deleteFeedback", err)
		return
	}

	h.invalidate(c.Request.Context(), cacheKeyFeedbackStats)
	c.Status(http.StatusNoContent)
}

func (h *Handlers) feedbackStats(c *gin.Context) {
	stats, err := FindAndCache(c.Request.Context(), h.cache, &h.sfGroup, cacheKeyFeedbackStats, h.cacheTTL, h.logger,
		func(fetchCtx context.Context) (domain.FeedbackStats, error) {
			return h.feedback.Stats(fetchCtx)
		})
	if err != nil {
		h.handleError(c, "feedbackStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handlers) invalidate(ctx context.Context, keys ...string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, keys...); err != nil {
		h.logger.Warn("cache invalidation failed",
			zap.Strings("keys", keys),
			zap.Error(err))
	}
}
