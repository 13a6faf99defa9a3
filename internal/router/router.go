package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/progression/api/handler"
)

const progressionsPath = "/api/v1/customers/{customerId}/employmentprogressions"

type Handlers struct {
	Progression *apiHandler.ProgressionHandler
	Health      *apiHandler.HealthHandler
	Metrics     fasthttp.RequestHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	r.POST(progressionsPath, handlers.Progression.Create)
	r.GET(progressionsPath, handlers.Progression.List)
	r.GET(progressionsPath+"/{employmentProgressionId}", handlers.Progression.Get)
	r.PATCH(progressionsPath+"/{employmentProgressionId}", handlers.Progression.Patch)

	return r
}
