package transport

// Request headers every progression call must carry.
const (
	HeaderTouchpointID = "TouchpointId"
	HeaderBaseURL      = "apimurl"
	HeaderRequestID    = "X-Request-ID"
)

// Route parameters.
const (
	ParamCustomerID    = "customerId"
	ParamProgressionID = "employmentProgressionId"
)
