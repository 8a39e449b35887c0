package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gofrs/uuid"

	"debarment_service/internal/apperr"
	"debarment_service/internal/auth"
	"debarment_service/internal/models"
	"debarment_service/internal/service"
)

const (
	msgInvalidBody   = "Cuerpo de la petición inválido"
	msgRouteNotFound = "Ruta no encontrada"
)

type Handler struct {
	credentials *service.Credentials
	lookup      *service.Lookup
	log         *slog.Logger
}

// NewHandler accepts a nil service for binaries that only serve the other one.
func NewHandler(creds *service.Credentials, lookup *service.Lookup, lgr *slog.Logger) *Handler {
	return &Handler{
		credentials: creds,
		lookup:      lookup,
		log:         lgr,
	}
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Message string       `json:"message"`
	Payload *auth.Claims `json:"payload"`
}

type lookupErrorResponse struct {
	Error string `json:"error"`
}

// Credentials routes one Lambda to register, login or validate by the last
// path segment, so a single function can back all three API routes.
func (h *Handler) Credentials(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := strings.TrimSuffix(req.Path, "/")
	if path == "" {
		path = strings.TrimSuffix(req.Resource, "/")
	}

	switch {
	case strings.HasSuffix(path, "/register"):
		return h.Register(ctx, req)
	case strings.HasSuffix(path, "/login"):
		return h.Login(ctx, req)
	case strings.HasSuffix(path, "/validate"):
		return h.ValidateToken(ctx, req)
	}

	return jsonResponse(http.StatusNotFound, messageResponse{Message: msgRouteNotFound}), nil
}

// POST /auth/register
func (h *Handler) Register(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	const op = "handler.Register"

	log := h.requestLog(ctx, req, op)

	creds, err := decodeCredentials(req)
	if err != nil {
		log.Info("failed to read request body", slog.Any("error", err))
		return jsonResponse(http.StatusBadRequest, messageResponse{Message: msgInvalidBody}), nil
	}

	if err := h.credentials.Register(ctx, creds); err != nil {
		return errorResponse(err, service.MsgInternalError), nil
	}

	return jsonResponse(http.StatusOK, messageResponse{Message: service.MsgUserCreated}), nil
}

// POST /auth/login
func (h *Handler) Login(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	const op = "handler.Login"

	log := h.requestLog(ctx, req, op)

	creds, err := decodeCredentials(req)
	if err != nil {
		log.Info("failed to read request body", slog.Any("error", err))
		return jsonResponse(http.StatusBadRequest, messageResponse{Message: msgInvalidBody}), nil
	}

	token, err := h.credentials.Login(ctx, creds)
	if err != nil {
		return errorResponse(err, service.MsgLoginError), nil
	}

	log.Info("user logged in", slog.String("tenant_id", creds.TenantID), slog.String("username", creds.Username))

	return jsonResponse(http.StatusOK, tokenResponse{Token: token}), nil
}

// GET /auth/validate
func (h *Handler) ValidateToken(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	const op = "handler.ValidateToken"

	log := h.requestLog(ctx, req, op)

	// the raw token is expected, a Bearer prefix is tolerated
	token := strings.TrimSpace(auth.HeaderValue(req.Headers, "Authorization"))
	if bearer, err := auth.BearerToken(token); err == nil {
		token = bearer
	}

	claims, err := h.credentials.ValidateToken(token)
	if err != nil {
		log.Info("token rejected", slog.Any("error", err))
		return errorResponse(err, service.MsgTokenInvalid), nil
	}

	return jsonResponse(http.StatusOK, validateResponse{Message: service.MsgTokenValid, Payload: claims}), nil
}

// GET /debarred-firms?nombre=<substring>
func (h *Handler) Lookup(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	const op = "handler.Lookup"

	log := h.requestLog(ctx, req, op)

	claims, err := h.lookup.Authenticate(req.Headers)
	if err != nil {
		log.Info("authentication failed", slog.Any("error", err))
		return jsonResponse(apperr.KindOf(err).Status(), lookupErrorResponse{Error: apperr.MessageOf(err, service.MsgInvalid)}), nil
	}

	// the lookup is global; the caller's tenant is only logged
	log.Info("user authenticated", slog.String("tenant_id", claims.TenantID), slog.String("username", claims.Username))

	result, err := h.lookup.LookupDebarredFirms(ctx, req.QueryStringParameters["nombre"])
	if err != nil {
		kind := apperr.KindOf(err)
		msg := apperr.MessageOf(err, service.MsgScrapeError)
		if kind == apperr.Internal {
			msg = err.Error()
		}
		return jsonResponse(kind.Status(), lookupErrorResponse{Error: msg}), nil
	}

	return jsonResponse(http.StatusOK, result), nil
}

func (h *Handler) requestLog(ctx context.Context, req events.APIGatewayProxyRequest, op string) *slog.Logger {
	return h.log.With(slog.String("op", op), slog.String("request_id", requestID(ctx, req)))
}

func requestID(ctx context.Context, req events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if req.RequestContext.RequestID != "" {
		return req.RequestContext.RequestID
	}
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

func decodeCredentials(req events.APIGatewayProxyRequest) (models.Credentials, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return models.Credentials{}, err
		}
		body = decoded
	}

	var creds models.Credentials
	if err := json.Unmarshal(body, &creds); err != nil {
		return models.Credentials{}, err
	}

	return creds, nil
}

// errorResponse writes {message} and, for internal failures, the cause as
// {error} for diagnostics.
func errorResponse(err error, fallback string) events.APIGatewayProxyResponse {
	kind := apperr.KindOf(err)
	resp := messageResponse{Message: apperr.MessageOf(err, fallback)}

	if kind == apperr.Internal {
		resp.Error = err.Error()
		var e *apperr.Error
		if errors.As(err, &e) && e.Err != nil {
			resp.Error = e.Err.Error()
		}
	}

	return jsonResponse(kind.Status(), resp)
}

func jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"message":"Error interno"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}
