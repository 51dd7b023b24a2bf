package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/logger"
	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	actorKey        = "actor"
	bearerPrefix    = "Bearer "
)

// Claims are the access token claims issued by the identity service.
// The subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequestID propagates or generates a request id and attaches a request
// scoped logger to the request context.
func RequestID(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		ctx, _ := logger.WithRequestID(c.Request.Context(), log, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logger.FromContext(c.Request.Context())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if a, ok := c.Get(actorKey); ok {
			fields = append(fields, zap.String("user_id", a.(actor.Actor).UserID))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Info("request rejected", fields...)
		default:
			log.Debug("request served", fields...)
		}
	}
}

// Metrics records request counts and latency by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Authenticate validates the HS256 bearer token and stores the caller as an
// actor.Actor on the gin context.
func Authenticate(secret []byte, issuer string) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := &Claims{}
		_, err := parser.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		a, err := actor.New(claims.Subject, actor.Role(claims.Role))
		if err != nil {
			abortUnauthorized(c, "token does not identify a marketplace user")
			return
		}
		c.Set(actorKey, a)

		ctx := logger.WithContext(c.Request.Context(),
			logger.FromContext(c.Request.Context()).With(zap.String("user_id", a.UserID)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(c, "ERR_UNAUTHORIZED", message, nil))
}

// currentActor returns the authenticated caller. Only valid behind Authenticate.
func currentActor(c *gin.Context) actor.Actor {
	a, _ := c.Get(actorKey)
	return a.(actor.Actor)
}
