package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/app/product/queries/get_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/queries/list_products"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/create_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/delete_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/update_product"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

// ProductHandler is a thin coordinator over the product use cases.
type ProductHandler struct {
	create *create_product.Interactor
	update *update_product.Interactor
	delete *delete_product.Interactor
	get    *get_product.Query
	list   *list_products.Query
}

func NewProductHandler(
	create *create_product.Interactor,
	update *update_product.Interactor,
	del *delete_product.Interactor,
	get *get_product.Query,
	list *list_products.Query,
) *ProductHandler {
	return &ProductHandler{create: create, update: update, delete: del, get: get, list: list}
}

type discountRequest struct {
	Percentage decimal.Decimal `json:"percentage"`
	Active     bool            `json:"active"`
	ExpiresAt  *time.Time      `json:"expires_at"`
}

func (r *discountRequest) toDomain() (*domain.Discount, error) {
	if r == nil {
		return nil, nil
	}
	return domain.NewDiscount(r.Percentage, r.Active, r.ExpiresAt)
}

type createProductRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Category    string           `json:"category" binding:"required,max=100"`
	Price       *domain.Money    `json:"price" binding:"required"`
	Unit        string           `json:"unit" binding:"required,max=32"`
	Stock       int64            `json:"stock" binding:"gte=0"`
	Negotiable  bool             `json:"negotiable"`
	Discount    *discountRequest `json:"discount"`
	Image       string           `json:"image" binding:"omitempty,url"`
}

// updateProductRequest only carries the editable fields; anything else in
// the body is ignored.
type updateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Price       *domain.Money    `json:"price"`
	Unit        *string          `json:"unit" binding:"omitempty,max=32"`
	Stock       *int64           `json:"stock"`
	Negotiable  *bool            `json:"negotiable"`
	Discount    *discountRequest `json:"discount"`
	Image       *string          `json:"image" binding:"omitempty,url"`
}

type listProductsRequest struct {
	Category   string `form:"category"`
	Negotiable *bool  `form:"negotiable"`
	InStock    bool   `form:"in_stock"`
	Q          string `form:"q" binding:"max=200"`
	MinPrice   string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice   string `form:"max_price" binding:"omitempty,numeric"`
	Sort       string `form:"sort" binding:"omitempty,oneof=newest rating"`
	PageSize   int    `form:"page_size" binding:"gte=0,lte=100"`
	PageToken  string `form:"page_token"`
}

// optionalMoney parses a query amount; an empty string means no bound.
func optionalMoney(raw string) (*domain.Money, error) {
	if raw == "" {
		return nil, nil
	}
	m, err := domain.MoneyFromString(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "malformed price bound", err)
	}
	return &m, nil
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	discount, err := req.Discount.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	dto, err := h.create.Execute(c.Request.Context(), &create_product.Request{
		Actor:       currentActor(c),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Negotiable:  req.Negotiable,
		Discount:    discount,
		Image:       req.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": dto})
}

// Update handles PATCH /api/v1/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	discount, err := req.Discount.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	dto, err := h.update.Execute(c.Request.Context(), &update_product.Request{
		Actor:     currentActor(c),
		ProductID: c.Param("id"),
		Patch: domain.Patch{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Unit:        req.Unit,
			Stock:       req.Stock,
			Negotiable:  req.Negotiable,
			Discount:    discount,
			Image:       req.Image,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto})
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.delete.Execute(c.Request.Context(), &delete_product.Request{
		Actor:     currentActor(c),
		ProductID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	dto, err := h.get.Execute(c.Request.Context(), &get_product.Request{ProductID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto})
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	h.listFor(c, "")
}

// ListMine handles GET /api/v1/products/mine.
func (h *ProductHandler) ListMine(c *gin.Context) {
	a := currentActor(c)
	if !a.CanListProducts() {
		writeError(c, domain.ErrSupplierOnly)
		return
	}
	h.listFor(c, a.UserID)
}

func (h *ProductHandler) listFor(c *gin.Context, supplierID string) {
	var req listProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	minPrice, err := optionalMoney(req.MinPrice)
	if err != nil {
		writeError(c, err)
		return
	}
	maxPrice, err := optionalMoney(req.MaxPrice)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.list.Execute(c.Request.Context(), &list_products.Request{
		Category:     req.Category,
		SupplierID:   supplierID,
		Negotiable:   req.Negotiable,
		InStock:      req.InStock,
		Search:       req.Q,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		SortByRating: req.Sort == "rating",
		PageSize:     req.PageSize,
		PageToken:    req.PageToken,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": result.Products,
		"meta": gin.H{"total": result.TotalCount, "next_page_token": result.NextPageToken},
	})
}
