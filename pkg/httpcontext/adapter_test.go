package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestAdapter_AttachKeepsRequestID(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-Request-ID", "abc-123")

	stdCtx, cancel := NewAdapter(time.Second).Attach(ctx)
	defer cancel()

	assert.Equal(t, "abc-123", string(ctx.Response.Header.Peek("X-Request-ID")))
	deadline, ok := stdCtx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}

func TestAdapter_AttachGeneratesRequestID(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	_, cancel := NewAdapter(0).Attach(ctx)
	defer cancel()

	assert.Len(t, string(ctx.Response.Header.Peek("X-Request-ID")), 36)
}
