package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/rawsy-service/internal/app/notification/queries/list_notifications"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/queries/list_events"
)

type NotificationHandler struct {
	list *list_notifications.Query
}

func NewNotificationHandler(list *list_notifications.Query) *NotificationHandler {
	return &NotificationHandler{list: list}
}

type notificationResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

// List handles GET /api/v1/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	var req struct {
		Limit int `form:"limit" binding:"gte=0,lte=200"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	items, err := h.list.Execute(c.Request.Context(), &list_notifications.Request{Actor: currentActor(c), Limit: req.Limit})
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse{
			ID:        n.ID(),
			Type:      string(n.Type()),
			Title:     n.Title(),
			Body:      n.Body(),
			Data:      n.Data(),
			Read:      n.Read(),
			CreatedAt: n.CreatedAt(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// EventsHandler exposes the outbox for audit.
type EventsHandler struct {
	list *list_events.Query
}

func NewEventsHandler(list *list_events.Query) *EventsHandler {
	return &EventsHandler{list: list}
}

type eventResponse struct {
	EventID     string     `json:"event_id"`
	EventType   string     `json:"event_type"`
	AggregateID string     `json:"aggregate_id"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type listEventsRequest struct {
	EventType   string `form:"event_type"`
	AggregateID string `form:"aggregate_id"`
	Status      string `form:"status" binding:"omitempty,oneof=pending completed failed"`
	Limit       int    `form:"limit" binding:"gte=0,lte=1000"`
}

// List handles GET /api/v1/events.
func (h *EventsHandler) List(c *gin.Context) {
	var req listEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	query := &list_events.Request{Actor: currentActor(c), Limit: req.Limit}
	if req.EventType != "" {
		query.EventType = &req.EventType
	}
	if req.AggregateID != "" {
		query.AggregateID = &req.AggregateID
	}
	if req.Status != "" {
		query.Status = &req.Status
	}

	records, total, err := h.list.Execute(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	events := make([]eventResponse, 0, len(records))
	for _, r := range records {
		events = append(events, eventResponse{
			EventID:     r.EventID,
			EventType:   r.EventType,
			AggregateID: r.AggregateID,
			Payload:     r.Payload,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
			ProcessedAt: r.ProcessedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": events, "meta": gin.H{"total": total}})
}
