package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/progression/api/transport"
	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/pkg/httpcontext"
	progressionUC "github.com/fastygo/progression/usecase/progression"
)

// ProgressionService is the use case surface the handler drives.
type ProgressionService interface {
	Create(ctx context.Context, caller progressionUC.Caller, body []byte) (*domain.EmploymentProgression, error)
	List(ctx context.Context, caller progressionUC.Caller) ([]domain.EmploymentProgression, error)
	Get(ctx context.Context, caller progressionUC.Caller, id string) (*domain.EmploymentProgression, error)
	Patch(ctx context.Context, caller progressionUC.Caller, id string, body []byte) (*domain.EmploymentProgression, error)
}

type ProgressionHandler struct {
	baseHandler
	uc ProgressionService
}

func NewProgressionHandler(uc ProgressionService, adapter *httpcontext.Adapter, logger *zap.Logger) *ProgressionHandler {
	return &ProgressionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create employment progression
// @Tags employment-progressions
// @Router /api/v1/customers/{customerId}/employmentprogressions [post]
func (h *ProgressionHandler) Create(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, callerFrom(ctx), ctx.PostBody())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewProgressionResponse(created))
}

// @Summary List employment progressions of a customer
// @Tags employment-progressions
// @Router /api/v1/customers/{customerId}/employmentprogressions [get]
func (h *ProgressionHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	records, err := h.uc.List(stdCtx, callerFrom(ctx))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewProgressionListResponse(records))
}

// @Summary Get employment progression
// @Tags employment-progressions
// @Router /api/v1/customers/{customerId}/employmentprogressions/{employmentProgressionId} [get]
func (h *ProgressionHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	record, err := h.uc.Get(stdCtx, callerFrom(ctx), pathParam(ctx, transport.ParamProgressionID))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewProgressionResponse(record))
}

// @Summary Patch employment progression
// @Tags employment-progressions
// @Router /api/v1/customers/{customerId}/employmentprogressions/{employmentProgressionId} [patch]
func (h *ProgressionHandler) Patch(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Patch(stdCtx, callerFrom(ctx), pathParam(ctx, transport.ParamProgressionID), ctx.PostBody())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewProgressionResponse(updated))
}

func callerFrom(ctx *fasthttp.RequestCtx) progressionUC.Caller {
	return progressionUC.Caller{
		TouchpointID: string(ctx.Request.Header.Peek(transport.HeaderTouchpointID)),
		BaseURL:      string(ctx.Request.Header.Peek(transport.HeaderBaseURL)),
		CustomerID:   pathParam(ctx, transport.ParamCustomerID),
	}
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}
