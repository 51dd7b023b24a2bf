package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/queries/get_quote"
	"github.com/light-bringer/rawsy-service/internal/app/quote/queries/list_quotes"
	"github.com/light-bringer/rawsy-service/internal/app/quote/usecases/create_quote"
	"github.com/light-bringer/rawsy-service/internal/app/quote/usecases/transition_quote"
)

// QuoteHandler exposes the negotiation use cases.
type QuoteHandler struct {
	create     *create_quote.Interactor
	transition *transition_quote.Interactor
	get        *get_quote.Query
	list       *list_quotes.Query
}

func NewQuoteHandler(
	create *create_quote.Interactor,
	transition *transition_quote.Interactor,
	get *get_quote.Query,
	list *list_quotes.Query,
) *QuoteHandler {
	return &QuoteHandler{create: create, transition: transition, get: get, list: list}
}

type createQuoteRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	Notes     string `json:"notes" binding:"max=2000"`
}

type transitionRequest struct {
	Action          string               `json:"action" binding:"required,oneof=counter accept reject cancel convert"`
	CounterPrice    *productdomain.Money `json:"counter_price"`
	SupplierMessage *string              `json:"supplier_message" binding:"omitempty,max=2000"`
}

type listQuotesRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"gte=0,lte=200"`
}

// Create handles POST /api/v1/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	dto, err := h.create.Execute(c.Request.Context(), &create_quote.Request{
		Actor:     currentActor(c),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": dto})
}

// Transition handles POST /api/v1/quotes/:id/transitions.
func (h *QuoteHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		writeError(c, err)
		return
	}

	dto, err := h.transition.Execute(c.Request.Context(), &transition_quote.Request{
		Actor:           currentActor(c),
		QuoteID:         c.Param("id"),
		Action:          action,
		CounterPrice:    req.CounterPrice,
		SupplierMessage: req.SupplierMessage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto})
}

// Get handles GET /api/v1/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	dto, err := h.get.Execute(c.Request.Context(), &get_quote.Request{
		Actor:   currentActor(c),
		QuoteID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto})
}

// ListMine handles GET /api/v1/quotes/mine.
func (h *QuoteHandler) ListMine(c *gin.Context) {
	h.listBox(c, list_quotes.BoxSent)
}

// ListReceived handles GET /api/v1/quotes/received.
func (h *QuoteHandler) ListReceived(c *gin.Context) {
	h.listBox(c, list_quotes.BoxReceived)
}

func (h *QuoteHandler) listBox(c *gin.Context, box list_quotes.Box) {
	var req listQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	query := &list_quotes.Request{Actor: currentActor(c), Box: box, Limit: req.Limit}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		query.Status = &status
	}

	quotes, err := h.list.Execute(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quotes})
}
