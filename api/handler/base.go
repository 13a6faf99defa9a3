package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/progression/api/transport"
	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/pkg/httpcontext"
	"github.com/fastygo/progression/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.ResetBody()
}

// respondError writes the status for err. Absent resources and no-ops are
// both answered with 204 and an empty body.
func (h baseHandler) respondError(stdCtx context.Context, ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	log := logger.FromContext(stdCtx, h.logger)

	switch {
	case status == http.StatusNoContent:
		log.Debug("request produced no content", zap.Error(err))
		h.respondNoContent(ctx)
		return
	case status >= http.StatusInternalServerError:
		log.Error("request failed", zap.Error(err))
		h.respondJSON(ctx, status, transport.NewError(code, "internal server error", nil))
		return
	}

	var meta interface{}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		meta = transport.ValidationMeta{Violations: vErr.Violations}
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), meta))
}

func mapError(err error) (int, string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeUnprocessable)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNoContent, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeNoChange):
		return http.StatusNoContent, string(domain.ErrCodeNoChange)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeUnprocessable):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeUnprocessable)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
