// Package http is the REST surface of the marketplace service.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
)

// RouterConfig carries what the router needs besides the handlers.
type RouterConfig struct {
	JWTSecret string
	JWTIssuer string
	Logger    *zap.Logger
	Metrics   *metrics.Metrics

	// CORSOrigins enables cross-origin access for the listed origins.
	// Empty disables CORS handling.
	CORSOrigins []string
}

type Handlers struct {
	Products      *ProductHandler
	Quotes        *QuoteHandler
	Notifications *NotificationHandler
	Events        *EventsHandler
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	setupValidator()
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(log), RequestLogger(), Metrics(cfg.Metrics))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Content-Type", "Authorization", RequestIDHeader},
			ExposeHeaders:    []string{RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	auth := Authenticate([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	v1 := r.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", h.Products.List)
	products.GET("/mine", auth, h.Products.ListMine)
	products.GET("/:id", h.Products.Get)
	products.POST("", auth, h.Products.Create)
	products.PATCH("/:id", auth, h.Products.Update)
	products.DELETE("/:id", auth, h.Products.Delete)

	quotes := v1.Group("/quotes", auth)
	quotes.POST("", h.Quotes.Create)
	quotes.GET("/mine", h.Quotes.ListMine)
	quotes.GET("/received", h.Quotes.ListReceived)
	quotes.GET("/:id", h.Quotes.Get)
	quotes.POST("/:id/transitions", h.Quotes.Transition)

	v1.GET("/notifications", auth, h.Notifications.List)
	v1.GET("/events", auth, h.Events.List)

	return r
}
