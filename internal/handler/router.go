package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "RequestID"
)

type lambdaFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// InitRoutes serves the Lambda handlers over plain HTTP for local runs.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.RequestID(), h.AccessLog())

	if h.credentials != nil {
		auth := router.Group("/auth")
		{
			auth.POST("/register", h.adapt(h.Register))
			auth.POST("/login", h.adapt(h.Login))
			auth.GET("/validate", h.adapt(h.ValidateToken))
			auth.POST("/validate", h.adapt(h.ValidateToken))
		}
	}

	if h.lookup != nil {
		router.GET("/debarred-firms", h.adapt(h.Lookup))
	}

	return router
}

func (h *Handler) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			if v4, err := uuid.NewV4(); err == nil {
				id = v4.String()
			}
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()
	}
}

func (h *Handler) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		h.log.Info("request",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
		)
	}
}

// adapt turns an HTTP request into the API Gateway proxy event the Lambda
// handlers expect, and writes their response back.
func (h *Handler) adapt(fn lambdaFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
			return
		}

		req := events.APIGatewayProxyRequest{
			Path:                  c.Request.URL.Path,
			HTTPMethod:            c.Request.Method,
			Headers:               firstValues(c.Request.Header),
			QueryStringParameters: firstValues(c.Request.URL.Query()),
			Body:                  string(body),
			RequestContext: events.APIGatewayProxyRequestContext{
				RequestID: c.GetString(requestIDKey),
			},
		}

		resp, err := fn(c.Request.Context(), req)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, messageResponse{Message: "Error interno", Error: err.Error()})
			return
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Data(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
	}
}

func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
