package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"ovation/internal/logger"
	"ovation/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Ctx key and helpers for the acting buyer id
// Using unexported type to avoid collisions

type ctxKey string

const buyerIDKey ctxKey = "buyer_id"

func ContextWithBuyerID(ctx context.Context, buyerID int64) context.Context {
	return context.WithValue(ctx, buyerIDKey, buyerID)
}

func BuyerIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(buyerIDKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CORS middleware for handling cross-origin requests
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Buyer-Id")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID attaches a request id to the context for log correlation
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = logger.NewRequestID()
		}
		c.Header("X-Request-Id", requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Logger middleware for structured request logging
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		buyerID, exists := c.Get("buyer_id")

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if exists {
			logFields = append(logFields, "buyer_id", buyerID)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			logger.WithContext(c.Request.Context()).Error("Request completed with error", logFields...)
		}

		metrics.RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Observe(latency.Seconds())
	}
}

// Recovery middleware recovers panics and logs them with request detail
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithContext(c.Request.Context()).Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// Identity resolves the acting buyer from the X-Buyer-Id header set by the
// upstream auth gateway. Requests without it are rejected before reaching
// any handler that mutates inventory.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Buyer-Id")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing X-Buyer-Id header"})
			return
		}

		buyerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || buyerID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid X-Buyer-Id header"})
			return
		}

		c.Set("buyer_id", buyerID)
		ctx := ContextWithBuyerID(c.Request.Context(), buyerID)
		ctx = logger.ContextWithBuyerID(ctx, buyerID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
